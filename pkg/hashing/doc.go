// Package hashing produces the canonical, order-independent fingerprints that bind
// trades, settlement plans and settlement fund flows.
//
// Every decimal is quantized to 18 fractional digits before it participates in a hash,
// fields and records are joined with "|", and the result is hex-encoded SHA-256:
//
//	hash, err := hashing.TradeHash(hashing.TradeRecord{...})
//	planHash := hashing.SettlementHash(hashing.SettlementMap{"abc123": hash})
//	flowHash, err := hashing.FlowHash(flow)
package hashing
