package multi

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/crimson-sun/vmbench/internal/model"
)

type recordingOutput struct {
	reports []model.Report
	closed  bool
	err     error
	onClose func()
}

func (r *recordingOutput) Write(_ context.Context, report model.Report) error {
	r.reports = append(r.reports, report)
	return r.err
}

func (r *recordingOutput) Close() error {
	r.closed = true
	if r.onClose != nil {
		r.onClose()
	}
	return r.err
}

func TestWriteReachesEveryOutput(t *testing.T) {
	a, b := &recordingOutput{}, &recordingOutput{}
	m := New(a, b)

	report := model.Report{Charts: []string{"comparison_bar_chart.png"}}
	if err := m.Write(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, out := range []*recordingOutput{a, b} {
		if len(out.reports) != 1 || out.reports[0].Charts[0] != "comparison_bar_chart.png" {
			t.Errorf("output %d: got %+v", i, out.reports)
		}
	}
}

func TestFailingOutputDoesNotBlockOthers(t *testing.T) {
	errA := errors.New("disk full")
	a := &recordingOutput{err: errA}
	b := &recordingOutput{}
	m := New(a, b)

	err := m.Write(context.Background(), model.Report{})
	if !errors.Is(err, errA) {
		t.Fatalf("expected joined error to wrap %v, got %v", errA, err)
	}
	if len(b.reports) != 1 {
		t.Fatal("second output did not receive the report")
	}
}

func TestCloseClosesAll(t *testing.T) {
	errB := errors.New("close failed")
	a, b := &recordingOutput{}, &recordingOutput{err: errB}
	if err := New(a, b).Close(); !errors.Is(err, errB) {
		t.Fatalf("expected %v, got %v", errB, err)
	}
	if !a.closed || !b.closed {
		t.Fatal("expected both outputs closed")
	}
}

// barrierOutput blocks in Write until every output sharing the barrier has
// entered Write.
type barrierOutput struct {
	barrier *sync.WaitGroup
	all     <-chan struct{}
}

func (b *barrierOutput) Write(context.Context, model.Report) error {
	b.barrier.Done()
	select {
	case <-b.all:
		return nil
	case <-time.After(2 * time.Second):
		return errors.New("outputs were not written concurrently")
	}
}

func (b *barrierOutput) Close() error { return nil }

func TestWriteRunsOutputsConcurrently(t *testing.T) {
	var barrier sync.WaitGroup
	barrier.Add(2)
	all := make(chan struct{})
	go func() {
		barrier.Wait()
		close(all)
	}()

	m := New(&barrierOutput{&barrier, all}, &barrierOutput{&barrier, all})
	if err := m.Write(context.Background(), model.Report{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWriteErrorNamesOutput(t *testing.T) {
	m := New(&recordingOutput{}, &recordingOutput{err: errors.New("boom")})
	err := m.Write(context.Background(), model.Report{})
	if err == nil || !strings.Contains(err.Error(), "output 1: boom") {
		t.Fatalf("err = %v, want it tagged with output 1", err)
	}
}

func TestCloseReverseOrder(t *testing.T) {
	var order []string
	a := &recordingOutput{onClose: func() { order = append(order, "a") }}
	b := &recordingOutput{onClose: func() { order = append(order, "b") }}
	if err := New(a, b).Close(); err != nil {
		t.Fatal(err)
	}
	if strings.Join(order, ",") != "b,a" {
		t.Fatalf("close order = %v, want b,a", order)
	}
}
