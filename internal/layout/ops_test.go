package layout

import (
	"errors"
	"reflect"
	"testing"
)

type recordingDispatcher struct {
	dispatched [][]string
}

func (d *recordingDispatcher) Dispatch(args ...string) error {
	d.dispatched = append(d.dispatched, append([]string(nil), args...))
	return nil
}

type batchingDispatcher struct {
	recordingDispatcher
	batches  int
	batchErr error
}

func (d *batchingDispatcher) DispatchBatch(commands [][]string) error {
	if d.batchErr != nil {
		return d.batchErr
	}
	d.batches++
	for _, cmd := range commands {
		d.dispatched = append(d.dispatched, append([]string(nil), cmd...))
	}
	return nil
}

func TestExecuteSequential(t *testing.T) {
	var plan Plan
	plan.Merge(Hide("0xa"))
	plan.Merge(Focus("0xb"))

	d := &recordingDispatcher{}
	if err := plan.Execute(d); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := [][]string{
		{"hidewindow", "id:0xa"},
		{"focuswindow", "id:0xb"},
	}
	if !reflect.DeepEqual(d.dispatched, want) {
		t.Fatalf("unexpected dispatches %v", d.dispatched)
	}
}

func TestExecutePrefersBatch(t *testing.T) {
	var plan Plan
	plan.Merge(Show("0xa"))
	plan.Merge(FloatAndPlace("0xa", Rect{X: 10, Y: 20, Width: 300, Height: 200}))

	d := &batchingDispatcher{}
	if err := plan.Execute(d); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if d.batches != 1 {
		t.Fatalf("expected one batch, got %d", d.batches)
	}
	if len(d.dispatched) != 4 {
		t.Fatalf("expected 4 commands, got %v", d.dispatched)
	}
}

func TestExecuteSingleCommandSkipsBatch(t *testing.T) {
	plan := Focus("0xa")
	d := &batchingDispatcher{}
	if err := plan.Execute(d); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if d.batches != 0 {
		t.Fatalf("expected no batch for single command, got %d", d.batches)
	}
	if len(d.dispatched) != 1 {
		t.Fatalf("expected one command, got %v", d.dispatched)
	}
}

func TestExecuteFallsBackWhenBatchUnsupported(t *testing.T) {
	var plan Plan
	plan.Merge(Hide("0xa"))
	plan.Merge(Hide("0xb"))

	d := &batchingDispatcher{batchErr: ErrBatchUnsupported}
	if err := plan.Execute(d); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(d.dispatched) != 2 {
		t.Fatalf("expected sequential fallback, got %v", d.dispatched)
	}
}

func TestExecutePropagatesBatchError(t *testing.T) {
	var plan Plan
	plan.Merge(Hide("0xa"))
	plan.Merge(Hide("0xb"))

	d := &batchingDispatcher{batchErr: errors.New("socket gone")}
	if err := plan.Execute(d); err == nil {
		t.Fatal("expected batch error to propagate")
	}
	if len(d.dispatched) != 0 {
		t.Fatalf("expected no sequential fallback, got %v", d.dispatched)
	}
}
