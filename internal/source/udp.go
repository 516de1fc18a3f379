package source

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync/atomic"
	"time"
)

// maxDatagram is the largest UDP payload we accept; a full 478-landmark
// NDJSON frame runs around 16KB, well inside this.
const maxDatagram = 65507

// UDPSource receives NDJSON frame datagrams from the landmark-detector
// process. Each datagram carries exactly one frame. Parsed frames go to the
// slot; malformed datagrams are counted and skipped, never fatal.
type UDPSource struct {
	address     string
	rcvBuf      int
	logInterval time.Duration
	slot        *Slot

	frames     atomic.Uint64
	parseFails atomic.Uint64
	boundAddr  atomic.Value // net.Addr, set once listening
}

// UDPSourceConfig contains configuration options for the UDP frame source.
type UDPSourceConfig struct {
	Address     string
	RcvBuf      int
	LogInterval time.Duration
	Slot        *Slot
}

// NewUDPSource creates a UDP frame source with the provided configuration.
func NewUDPSource(cfg UDPSourceConfig) *UDPSource {
	if cfg.LogInterval <= 0 {
		cfg.LogInterval = time.Minute
	}
	return &UDPSource{
		address:     cfg.Address,
		rcvBuf:      cfg.RcvBuf,
		logInterval: cfg.LogInterval,
		slot:        cfg.Slot,
	}
}

// Run listens for frame datagrams until the context is cancelled or an
// unrecoverable socket error occurs.
func (s *UDPSource) Run(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", s.address)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on UDP: %w", err)
	}
	defer conn.Close()

	if s.rcvBuf > 0 {
		if err := conn.SetReadBuffer(s.rcvBuf); err != nil {
			log.Printf("Warning: failed to set UDP receive buffer to %d bytes: %v", s.rcvBuf, err)
		}
	}

	s.boundAddr.Store(conn.LocalAddr())
	log.Printf("Listening for detector frames on %s", conn.LocalAddr())

	go s.statsLoop(ctx)

	buffer := make([]byte, maxDatagram)
	for {
		select {
		case <-ctx.Done():
			log.Println("UDP frame source shutting down")
			return ctx.Err()
		default:
			// Read with a deadline so context cancellation is noticed.
			if err := conn.SetReadDeadline(time.Now().Add(1 * time.Second)); err != nil {
				log.Printf("Error setting read deadline: %v", err)
				continue
			}

			n, _, err := conn.ReadFromUDP(buffer)
			if err != nil {
				if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
					continue
				}
				log.Printf("Error reading frame datagram: %v", err)
				continue
			}

			f, err := ParseFrame(buffer[:n])
			if err != nil {
				s.parseFails.Add(1)
				log.Printf("Dropping malformed frame: %v", err)
				continue
			}
			s.frames.Add(1)
			s.slot.Publish(f)
		}
	}
}

// Addr returns the bound listen address, or nil before Run has opened the
// socket. Callers binding port 0 use this to learn the assigned port.
func (s *UDPSource) Addr() net.Addr {
	addr, _ := s.boundAddr.Load().(net.Addr)
	return addr
}

func (s *UDPSource) statsLoop(ctx context.Context) {
	ticker := time.NewTicker(s.logInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Printf("Frame source: %d frames received, %d parse failures, %d dropped unconsumed",
				s.frames.Load(), s.parseFails.Load(), s.slot.Drops())
		}
	}
}
