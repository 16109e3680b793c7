package store

import (
	"errors"
	"testing"

	"github.com/rickgao/crypto-aggregator/internal/errs"
	"github.com/rickgao/crypto-aggregator/internal/model"
)

type fakeRows struct {
	rows [][]any
	pos  int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	*dest[0].(*string) = row[0].(string)
	*dest[1].(*string) = row[1].(string)
	*dest[2].(*float64) = row[2].(float64)
	*dest[3].(*int64) = row[3].(int64)
	return nil
}

func (r *fakeRows) Err() error { return r.err }

func TestScanAssets(t *testing.T) {
	t.Run("maps columns onto assets", func(t *testing.T) {
		rows := &fakeRows{rows: [][]any{
			{"bitcoin_1625097600", "bitcoin", 33500.25, int64(1625097600)},
			{"bitcoin_1625184000", "bitcoin", 34100.0, int64(1625184000)},
		}}

		assets, err := scanAssets(rows)
		if err != nil {
			t.Fatalf("scanAssets failed: %v", err)
		}
		if len(assets) != 2 {
			t.Fatalf("len = %d, want 2", len(assets))
		}
		want := model.Asset{
			ID:           "bitcoin",
			Price:        33500.25,
			Timestamp:    1625097600,
			CompositeKey: "bitcoin_1625097600",
		}
		if assets[0] != want {
			t.Errorf("assets[0] = %+v, want %+v", assets[0], want)
		}
	})

	t.Run("empty result is nil slice not error", func(t *testing.T) {
		assets, err := scanAssets(&fakeRows{})
		if err != nil {
			t.Fatalf("scanAssets failed: %v", err)
		}
		if assets != nil {
			t.Errorf("assets = %v, want nil", assets)
		}
	})

	t.Run("iteration error is a store failure", func(t *testing.T) {
		_, err := scanAssets(&fakeRows{err: errors.New("connection reset")})
		if !errors.Is(err, errs.ErrStoreFailure) {
			t.Errorf("error = %v, want ErrStoreFailure", err)
		}
	})
}
