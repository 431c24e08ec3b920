package probe

import (
	"context"
	"net"
	"testing"
	"time"
)

func testProber() Prober {
	return Prober{DialTimeout: 100 * time.Millisecond, Interval: 50 * time.Millisecond}
}

func TestWaitForAddrImmediateSuccess(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer ln.Close()

	start := time.Now()
	if !testProber().WaitForAddr(context.Background(), ln.Addr().String(), time.Second) {
		t.Fatal("expected readiness for bound listener")
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("readiness took %v, expected within one poll interval", elapsed)
	}
}

func TestWaitForAddrTimeoutBounds(t *testing.T) {
	// Bind and immediately close to get a port with no listener.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	timeout := 300 * time.Millisecond
	start := time.Now()
	if testProber().WaitForAddr(context.Background(), addr, timeout) {
		t.Fatal("expected failure for closed port")
	}
	elapsed := time.Since(start)

	if elapsed < timeout {
		t.Errorf("returned after %v, before the %v timeout", elapsed, timeout)
	}
	// Allow one poll interval plus one dial timeout of slack.
	if max := timeout + 250*time.Millisecond; elapsed > max {
		t.Errorf("returned after %v, expected no later than %v", elapsed, max)
	}
}

func TestWaitForAddrLateListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	// Rebind after a delay to simulate a slow-starting server.
	time.AfterFunc(150*time.Millisecond, func() {
		if ln2, lnErr := net.Listen("tcp", addr); lnErr == nil {
			t.Cleanup(func() { ln2.Close() })
		}
	})

	if !testProber().WaitForAddr(context.Background(), addr, 2*time.Second) {
		t.Error("expected readiness once the listener came up")
	}
}

func TestWaitForAddrContextCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	if testProber().WaitForAddr(ctx, addr, 5*time.Second) {
		t.Fatal("expected failure on cancelled context")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation took %v, expected prompt return", elapsed)
	}
}
