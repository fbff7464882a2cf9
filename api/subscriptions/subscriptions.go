// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/richie-labs/richie/api/utils"
	"github.com/richie-labs/richie/instruction"
	"github.com/richie-labs/richie/log"
	"github.com/richie-labs/richie/richie"
	"github.com/richie-labs/richie/runtime"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	writeWait  = 10 * time.Second
)

type Subscriptions struct {
	rt       *runtime.Runtime
	upgrader *websocket.Upgrader
	done     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

func New(rt *runtime.Runtime, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		rt: rt,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || slices.Contains(allowedOrigins, "*") {
					return true
				}
				for _, allowed := range allowedOrigins {
					if strings.EqualFold(allowed, origin) {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// receiptFilter selects receipts by op and by the accounts involved.
type receiptFilter struct {
	op      *instruction.Op
	account *richie.Address
}

func parseFilter(req *http.Request) (*receiptFilter, error) {
	var filter receiptFilter
	query := req.URL.Query()
	if s := query.Get("op"); s != "" {
		op, err := instruction.ParseOp(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "op"))
		}
		filter.op = &op
	}
	if s := query.Get("account"); s != "" {
		addr, err := richie.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "account"))
		}
		filter.account = &addr
	}
	return &filter, nil
}

func (f *receiptFilter) match(r *runtime.Receipt) bool {
	if f.op != nil && *f.op != r.Op {
		return false
	}
	if f.account == nil || *f.account == r.Signer {
		return true
	}
	for _, ev := range r.Events {
		if ev.Account == *f.account {
			return true
		}
	}
	return false
}

func (s *Subscriptions) handleSubscribeReceipts(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseFilter(req)
	if err != nil {
		return err
	}

	s.wg.Add(1)
	defer s.wg.Done()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has replied already
		logger.Debug("upgrade failed", "error", err)
		return nil
	}
	defer conn.Close()

	if err := s.pipe(conn, filter); err != nil {
		logger.Debug("subscription closed", "error", err)
	}
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, filter *receiptFilter) error {
	ch := make(chan *runtime.Receipt, 64)
	sub := s.rt.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closed"),
				time.Now().Add(writeWait))
		case <-closed:
			return nil
		case err := <-sub.Err():
			return err
		case r := <-ch:
			if !filter.match(r) {
				continue
			}
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteJSON(r); err != nil {
				return err
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

// Close terminates all live subscriptions.
func (s *Subscriptions) Close() {
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/receipt").
		Methods(http.MethodGet).
		Name("WS /subscriptions/receipt").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeReceipts))
}
