// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/websocket"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richie-labs/richie/api/accounts"
	"github.com/richie-labs/richie/api/stakes"
	"github.com/richie-labs/richie/eventdb"
	"github.com/richie-labs/richie/genesis"
	"github.com/richie-labs/richie/instruction"
	"github.com/richie-labs/richie/lvldb"
	"github.com/richie-labs/richie/metrics"
	"github.com/richie-labs/richie/program"
	"github.com/richie-labs/richie/program/reverts"
	"github.com/richie-labs/richie/richie"
	"github.com/richie-labs/richie/runtime"
	"github.com/richie-labs/richie/test/datagen"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

const launchTime = 1700000000

type testServer struct {
	ts    *httptest.Server
	rt    *runtime.Runtime
	db    *eventdb.EventDB
	gen   *genesis.Genesis
	nonce uint64
}

func newTestServer(t *testing.T) *testServer {
	rt := runtime.New(lvldb.NewMem(), runtime.NewManualClock(launchTime))
	t.Cleanup(rt.Close)

	gen := genesis.NewDevnet(launchTime, 600)
	_, err := genesis.Setup(rt, gen)
	require.NoError(t, err)

	db, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	handler, closeSubs := New(rt, db, Options{
		AllowedOrigins:  "*",
		EventsLimit:     10,
		EnableReqLogger: true,
		EnableMetrics:   true,
	})
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())
	mux.Handle("/", handler)

	ts := httptest.NewServer(mux)
	t.Cleanup(func() {
		closeSubs()
		ts.Close()
	})
	return &testServer{ts: ts, rt: rt, db: db, gen: gen}
}

func (s *testServer) get(t *testing.T, path string) ([]byte, int) {
	res, err := http.Get(s.ts.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func (s *testServer) post(t *testing.T, path string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(s.ts.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func (s *testServer) send(t *testing.T, ix *instruction.Instruction, key *ecdsa.PrivateKey) ([]byte, int) {
	s.nonce++
	data, err := instruction.Encode(instruction.MustSign(ix, key))
	require.NoError(t, err)
	return s.post(t, "/instructions", map[string]string{"raw": hexutil.Encode(data)})
}

// exec sends an instruction expected to succeed and indexes its events.
func (s *testServer) exec(t *testing.T, ix *instruction.Instruction, key *ecdsa.PrivateKey) *runtime.Receipt {
	body, code := s.send(t, ix, key)
	require.Equal(t, http.StatusOK, code, string(body))

	var receipt runtime.Receipt
	require.NoError(t, json.Unmarshal(body, &receipt))
	require.False(t, receipt.Reverted, receipt.Error)
	require.NoError(t, s.db.Write(context.Background(), &receipt))
	return &receipt
}

func decode[T any](t *testing.T, body []byte) *T {
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return &v
}

func TestProgramEndpoints(t *testing.T) {
	s := newTestServer(t)
	admin, user := genesis.DevAccounts()[0], genesis.DevAccounts()[1]

	body, code := s.get(t, "/program/config")
	require.Equal(t, http.StatusOK, code)
	cfg := decode[stakes.Config](t, body)
	assert.Equal(t, admin.Address, cfg.Admin)
	assert.Equal(t, int64(600), cfg.EpochDuration)
	require.NotNil(t, cfg.RewardTokenMint)
	assert.Equal(t, s.gen.RewardMint.Address, *cfg.RewardTokenMint)

	_, code = s.get(t, "/program/epochs/0")
	assert.Equal(t, http.StatusNotFound, code)

	s.exec(t, instruction.NewToggle(s.nonce, 0, 0), admin.PrivateKey)
	s.exec(t, instruction.NewStake(s.nonce, 0, 1000, 1), user.PrivateKey)

	body, code = s.get(t, "/program/epochs/current")
	require.Equal(t, http.StatusOK, code)
	ep := decode[stakes.Epoch](t, body)
	assert.Equal(t, uint64(0), ep.Index)
	assert.Equal(t, int64(launchTime), ep.StakedStartTime)
	assert.Equal(t, richie.PreLaunchDuration, ep.StakeDuration)
	assert.False(t, ep.Ended)

	_, code = s.get(t, "/program/epochs/7")
	assert.Equal(t, http.StatusNotFound, code)
	_, code = s.get(t, "/program/epochs/abc")
	assert.Equal(t, http.StatusBadRequest, code)

	body, code = s.get(t, "/program/stakers")
	require.Equal(t, http.StatusOK, code)
	list := decode[stakes.StakerList](t, body)
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, []richie.Address{user.Address}, list.Owners)

	body, code = s.get(t, "/program/vaults")
	require.Equal(t, http.StatusOK, code)
	vaults := decode[stakes.Vaults](t, body)
	assert.Equal(t, uint64(1000), vaults.StakeVault)
	assert.Equal(t, int64(launchTime), vaults.Timestamp)
}

func TestAccountEndpoints(t *testing.T) {
	s := newTestServer(t)
	admin, user := genesis.DevAccounts()[0], genesis.DevAccounts()[1]

	body, code := s.get(t, "/accounts/"+user.Address.String())
	require.Equal(t, http.StatusOK, code)
	before := decode[accounts.Account](t, body)
	assert.Empty(t, before.Entries)
	assert.Equal(t, richie.UserStakeAddress(user.Address), before.UserStake)

	s.exec(t, instruction.NewToggle(s.nonce, 0, 0), admin.PrivateKey)
	s.exec(t, instruction.NewStake(s.nonce, 0, 1000, 1), user.PrivateKey)

	body, code = s.get(t, "/accounts/"+user.Address.String())
	require.Equal(t, http.StatusOK, code)
	after := decode[accounts.Account](t, body)
	assert.Equal(t, uint64(1000), after.TotalStaked)
	assert.Equal(t, before.StakeBalance-1000, after.StakeBalance)
	require.Len(t, after.Entries, 1)
	assert.Equal(t, uint8(1), after.Entries[0].LockPeriod)
	assert.Equal(t, uint64(1), after.Entries[0].EndEpoch)
	assert.Nil(t, after.Entries[0].CalculatedIndex)

	body, code = s.get(t, "/accounts/"+richie.StakeVaultAddress().String()+"/token")
	require.Equal(t, http.StatusOK, code)
	vault := decode[accounts.TokenAccount](t, body)
	assert.Equal(t, uint64(1000), vault.Amount)
	assert.Equal(t, richie.ConfigAddress(), vault.Owner)

	_, code = s.get(t, "/accounts/"+datagen.RandAddress().String()+"/token")
	assert.Equal(t, http.StatusNotFound, code)
	_, code = s.get(t, "/accounts/0x12")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestInstructionEndpoints(t *testing.T) {
	s := newTestServer(t)
	admin, user := genesis.DevAccounts()[0], genesis.DevAccounts()[1]

	r := s.exec(t, instruction.NewToggle(s.nonce, 0, 0), admin.PrivateKey)
	require.Len(t, r.Events, 1)
	assert.Equal(t, program.EventEpochOpened, r.Events[0].Kind)

	body, code := s.get(t, "/instructions/"+r.ID.String()+"/receipt")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, r, decode[runtime.Receipt](t, body))

	_, code = s.get(t, "/instructions/"+datagen.RandomHash().String()+"/receipt")
	assert.Equal(t, http.StatusNotFound, code)

	// replay
	data, err := instruction.Encode(instruction.MustSign(instruction.NewToggle(0, 0, 0), admin.PrivateKey))
	require.NoError(t, err)
	_, code = s.post(t, "/instructions", map[string]string{"raw": hexutil.Encode(data)})
	assert.Equal(t, http.StatusConflict, code)

	// reverted instructions still answer with a receipt
	body, code = s.send(t, instruction.NewStake(s.nonce, 0, 0, 1), user.PrivateKey)
	require.Equal(t, http.StatusOK, code)
	reverted := decode[runtime.Receipt](t, body)
	assert.True(t, reverted.Reverted)
	assert.Equal(t, reverts.ErrInvalidAmount.Code(), reverted.Code)
	assert.Empty(t, reverted.Events)

	// rejected
	_, code = s.post(t, "/instructions", map[string]string{"raw": "0xzz"})
	assert.Equal(t, http.StatusBadRequest, code)
	unsigned, err := instruction.Encode(instruction.NewClaim(99))
	require.NoError(t, err)
	_, code = s.post(t, "/instructions", map[string]string{"raw": hexutil.Encode(unsigned)})
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = s.post(t, "/instructions", map[string]any{"raw": "0x", "extra": 1})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestEventEndpoint(t *testing.T) {
	s := newTestServer(t)
	admin, user := genesis.DevAccounts()[0], genesis.DevAccounts()[1]

	s.exec(t, instruction.NewToggle(s.nonce, 0, 0), admin.PrivateKey)
	s.exec(t, instruction.NewStake(s.nonce, 0, 1000, 1), user.PrivateKey)
	s.exec(t, instruction.NewStake(s.nonce, 0, 500, 1), user.PrivateKey)

	body, code := s.post(t, "/events", map[string]any{"kind": "staked", "order": "desc"})
	require.Equal(t, http.StatusOK, code, string(body))
	events := *decode[[]*eventdb.Event](t, body)
	require.Len(t, events, 2)
	assert.Equal(t, uint64(500), events[0].Amount)
	assert.Equal(t, user.Address, events[0].Account)
	assert.Equal(t, instruction.OpStake, events[0].Op)

	body, code = s.post(t, "/events", map[string]any{"account": admin.Address})
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, *decode[[]*eventdb.Event](t, body), 1)

	_, code = s.post(t, "/events", map[string]any{"options": map[string]any{"limit": 11}})
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = s.post(t, "/events", map[string]any{"order": "up"})
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = s.post(t, "/events", map[string]any{"kind": "unknown"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSubscribeReceipts(t *testing.T) {
	s := newTestServer(t)
	admin, alice, bob := genesis.DevAccounts()[0], genesis.DevAccounts()[1], genesis.DevAccounts()[2]

	url := "ws" + strings.TrimPrefix(s.ts.URL, "http") + "/subscriptions/receipt?account=" + bob.Address.String()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	received := make(chan *runtime.Receipt, 1)
	go func() {
		var got runtime.Receipt
		if err := conn.ReadJSON(&got); err == nil {
			received <- &got
		}
	}()

	s.exec(t, instruction.NewToggle(s.nonce, 0, 0), admin.PrivateKey)
	// the subscription is registered shortly after the handshake
	var (
		got  *runtime.Receipt
		sent = map[richie.Bytes32]bool{}
	)
	for deadline := time.Now().Add(5 * time.Second); got == nil && time.Now().Before(deadline); {
		s.exec(t, instruction.NewStake(s.nonce, 0, 1, 1), alice.PrivateKey)
		sent[s.exec(t, instruction.NewStake(s.nonce, 0, 1, 1), bob.PrivateKey).ID] = true
		select {
		case got = <-received:
		case <-time.After(20 * time.Millisecond):
		}
	}
	require.NotNil(t, got)
	assert.True(t, sent[got.ID])
	assert.Equal(t, bob.Address, got.Signer)
	assert.Equal(t, instruction.OpStake, got.Op)

	_, _, err = websocket.DefaultDialer.Dial(
		"ws"+strings.TrimPrefix(s.ts.URL, "http")+"/subscriptions/receipt?op=nope", nil)
	assert.Error(t, err)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	res, err := http.Get(s.ts.URL + "/program/config")
	require.NoError(t, err)
	res.Body.Close()
	assert.NotEmpty(t, res.Header.Get(requestIDHeader))

	req, err := http.NewRequest(http.MethodGet, s.ts.URL+"/program/config", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "abc")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "abc", res.Header.Get(requestIDHeader))
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)

	s.get(t, "/program/config")
	s.get(t, "/program/epochs/abc")

	body, code := s.get(t, "/metrics")
	require.Equal(t, http.StatusOK, code)

	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	family, ok := families["richie_api_request_count"]
	require.True(t, ok)
	found := map[string]bool{}
	for _, m := range family.GetMetric() {
		labels := map[string]string{}
		for _, l := range m.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		found[labels["name"]+" "+labels["code"]] = true
	}
	assert.True(t, found["program_config 200"])
	assert.True(t, found["program_epochs_{index} 400"])
}
