// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the program records, keyed by record address.
// It follows the flow as bellow:
//
//	           o
//	           |
//	  [ revertable state ]
//	           |
//	    [ stacked map ] -> [ journal ] -> [ stage ] -> [ kv bulk ]
//	           |
//	     [ lru cache ]
//	           |
//	      [ kv store ]
//
// Record values are opaque bytes to this package. They are snappy compressed at rest.
package state
