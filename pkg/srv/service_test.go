package srv

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type recordingService struct {
	name  string
	mu    *sync.Mutex
	order *[]string
	err   error
}

func (r *recordingService) Start(ctx context.Context) error { return nil }

func (r *recordingService) Shutdown(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.order = append(*r.order, r.name)
	return r.err
}

func TestShutdownServices_ReverseOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string

	services := []Service{
		&recordingService{name: "storage", mu: &mu, order: &order},
		&recordingService{name: "scheduler", mu: &mu, order: &order, err: errors.New("ignored")},
		&recordingService{name: "http", mu: &mu, order: &order},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ShutdownServices(ctx, services)

	want := []string{"http", "scheduler", "storage"}
	if len(order) != len(want) {
		t.Fatalf("shutdown calls = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestNewCleanup(t *testing.T) {
	tests := []struct {
		name    string
		fn      func() error
		wantErr bool
	}{
		{name: "nil_func", fn: nil},
		{name: "success", fn: func() error { return nil }},
		{name: "failure", fn: func() error { return errors.New("close failed") }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCleanup(tt.fn)
			if err := svc.Start(context.Background()); err != nil {
				t.Fatalf("Start() error = %v", err)
			}
			err := svc.Shutdown(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Shutdown() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
