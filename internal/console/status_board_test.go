package console

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec struct {
	ID     string
	Status string
}

func recs(n int) []rec {
	out := make([]rec, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, rec{ID: fmt.Sprintf("r-%02d", i), Status: "Pending"})
	}
	return out
}

func newBoard(records []rec, update StatusUpdater[rec]) *StatusBoard[rec] {
	return NewStatusBoard(records, 5,
		func(r rec) []string { return []string{r.ID, r.Status} },
		func(r rec) string { return r.ID },
		func(r rec) string { return r.Status },
		update,
	)
}

func TestStatusBoard_SecondUpdateForSameRecordIsRejected(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	var mu sync.Mutex

	b := newBoard(recs(3), func(ctx context.Context, id, to string) (rec, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		if id == "r-01" {
			close(started)
			<-release
		}
		return rec{ID: id, Status: to}, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := b.UpdateStatus(context.Background(), "r-01", "Delivered")
		done <- err
	}()
	<-started

	assert.True(t, b.Updating("r-01"))
	_, err := b.UpdateStatus(context.Background(), "r-01", "Cancelled")
	assert.ErrorIs(t, err, ErrUpdateInFlight)

	// 他のレコードは操作できる
	other, err := b.UpdateStatus(context.Background(), "r-02", "Online paid")
	require.NoError(t, err)
	assert.Equal(t, "Online paid", other.Status)

	close(release)
	require.NoError(t, <-done)

	assert.False(t, b.Updating("r-01"))
	got, ok := b.Record("r-01")
	require.True(t, ok)
	assert.Equal(t, "Delivered", got.Status)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
}

func TestStatusBoard_FailureKeepsConfirmedRecord(t *testing.T) {
	boom := errors.New("boom")
	b := newBoard(recs(2), func(ctx context.Context, id, to string) (rec, error) {
		return rec{}, boom
	})

	_, err := b.UpdateStatus(context.Background(), "r-01", "Delivered")
	assert.ErrorIs(t, err, boom)

	got, _ := b.Record("r-01")
	assert.Equal(t, "Pending", got.Status)
	assert.False(t, b.Updating("r-01"))

	// 失敗後は再操作できる
	_, err = b.UpdateStatus(context.Background(), "r-01", "Delivered")
	assert.ErrorIs(t, err, boom)
}

func TestStatusBoard_UpdateKeepsPage(t *testing.T) {
	ctx := context.Background()
	b := newBoard(recs(12), func(ctx context.Context, id, to string) (rec, error) {
		return rec{ID: id, Status: to}, nil
	})
	require.NoError(t, b.Next(ctx))
	assert.Equal(t, 2, b.Current().Page)

	_, err := b.UpdateStatus(ctx, "r-07", "Delivered")
	require.NoError(t, err)

	p := b.Current()
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, "Delivered", p.Items[1].Status)
}

func TestStatusBoard_StatusFilter(t *testing.T) {
	items := recs(10)
	for i := range items {
		if i%2 == 0 {
			items[i].Status = "Delivered"
		}
	}
	b := newBoard(items, nil)
	require.NoError(t, b.Next(context.Background()))

	b.SetStatusFilter("Delivered")
	p := b.Current()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 5, p.TotalEntries)
	for _, r := range p.Items {
		assert.Equal(t, "Delivered", r.Status)
	}

	b.SetStatusFilter("")
	assert.Equal(t, 10, b.Current().TotalEntries)
}

// Pending → Delivered がサーバー経由で一覧に反映される
func TestOrderBoard_DeliveredScenario(t *testing.T) {
	order := Order{ID: "o-1", Status: "Pending", StatusColor: "warning"}
	c, _ := newAPI(t, map[string]http.HandlerFunc{
		"GET /admin/orders": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"data": []Order{order}, "totalEntries": 1})
		},
		"PATCH /admin/orders/{id}/status": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "o-1", r.PathValue("id"))
			updated := order
			updated.Status = "Delivered"
			updated.StatusColor = "success"
			writeJSON(w, http.StatusOK, updated)
		},
	})

	ctx := context.Background()
	board, err := LoadOrderBoard(ctx, c, 10)
	require.NoError(t, err)

	_, err = board.UpdateStatus(ctx, "o-1", "Delivered")
	require.NoError(t, err)

	p := board.Current()
	require.Len(t, p.Items, 1)
	assert.Equal(t, "Delivered", p.Items[0].Status)
	assert.Equal(t, "success", p.Items[0].StatusColor)
}
