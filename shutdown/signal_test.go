package shutdown

import (
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"mediaskills/logging"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestSignalCounter_Increment tests that Increment returns the running count.
func TestSignalCounter_Increment(t *testing.T) {
	counter := NewSignalCounter(3, nil)

	if count := counter.Increment(os.Interrupt); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
	if count := counter.Increment(syscall.SIGTERM); count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
}

func TestSignalCounter_ForceCallback(t *testing.T) {
	var forced os.Signal
	counter := NewSignalCounter(2, func(sig os.Signal) {
		forced = sig
	})

	counter.Increment(syscall.SIGTERM)
	if forced != nil {
		t.Error("callback should not be called on first increment")
	}

	counter.Increment(os.Interrupt)
	if forced != os.Interrupt {
		t.Errorf("callback should be called with the second signal, got %v", forced)
	}
}

func TestSignalCounter_ConcurrentIncrement(t *testing.T) {
	var callCount int
	var mu sync.Mutex

	counter := NewSignalCounter(50, func(os.Signal) {
		mu.Lock()
		callCount++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	const goroutines = 100
	seen := make([]bool, goroutines+1)

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			n := counter.Increment(os.Interrupt)
			mu.Lock()
			seen[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	for n := 1; n <= goroutines; n++ {
		if !seen[n] {
			t.Fatalf("count %d was never returned", n)
		}
	}
	mu.Lock()
	if callCount != goroutines-50+1 {
		t.Errorf("expected %d callbacks, got %d", goroutines-50+1, callCount)
	}
	mu.Unlock()
}

func TestExitCodeFor(t *testing.T) {
	if code := ExitCodeFor(os.Interrupt); code != 130 {
		t.Errorf("expected 130 for SIGINT, got %d", code)
	}
	if code := ExitCodeFor(syscall.SIGTERM); code != 143 {
		t.Errorf("expected 143 for SIGTERM, got %d", code)
	}
}

// TestWatch_FirstSignalWarnsSecondExits tests the two-stage interrupt handling.
func TestWatch_FirstSignalWarnsSecondExits(t *testing.T) {
	obsCore, logs := observer.New(zapcore.WarnLevel)

	ch := make(chan os.Signal)
	done := make(chan struct{})
	exitCodes := make(chan int, 1)
	firsts := make(chan os.Signal, 1)

	go watch(ch, done, WatchOptions{
		Logger:  logging.NewLoggerFromCore(obsCore),
		Exit:    func(code int) { exitCodes <- code },
		OnFirst: func(sig os.Signal) { firsts <- sig },
	})
	defer close(done)

	ch <- syscall.SIGTERM
	select {
	case sig := <-firsts:
		if sig != syscall.SIGTERM {
			t.Errorf("unexpected first signal %v", sig)
		}
	case <-time.After(time.Second):
		t.Fatal("first signal was not handled")
	}
	select {
	case code := <-exitCodes:
		t.Fatalf("first signal must not exit, got code %d", code)
	default:
	}

	ch <- os.Interrupt
	select {
	case code := <-exitCodes:
		if code != 130 {
			t.Errorf("expected exit code 130, got %d", code)
		}
	case <-time.After(time.Second):
		t.Fatal("second signal did not exit")
	}

	if logs.Len() != 2 {
		t.Fatalf("expected 2 warnings, got %d", logs.Len())
	}
	if exit := logs.All()[1].ContextMap()["exit"]; exit != "interrupted (SIGINT)" {
		t.Errorf("expected exit field %q, got %v", "interrupted (SIGINT)", exit)
	}
}

func TestWatchInterrupts_Stop(t *testing.T) {
	stop := WatchInterrupts(WatchOptions{Exit: func(int) { t.Error("unexpected exit") }})
	stop()
	stop()
}
