package workload

import (
	"errors"
	"fmt"

	"github.com/google/btree"

	"github.com/fulldump/slabbench/slab"
)

var ErrDiverged = errors.New("tracker diverged from collection")

// Audit checks that the tracked indices are exactly the valid indices of c.
func Audit(c slab.Collection[int], t *Tracker) error {
	expected := btree.NewG(32, func(a, b slab.Index) bool { return a < b })
	for _, i := range t.live {
		if _, dup := expected.ReplaceOrInsert(i); dup {
			return fmt.Errorf("%w: index %d tracked twice", ErrDiverged, i)
		}
	}

	if expected.Len() != c.Len() {
		return fmt.Errorf("%w: tracking %d indices, collection holds %d", ErrDiverged, expected.Len(), c.Len())
	}

	rows := c.Scan()
	defer rows.Close()

	var err error
	expected.Ascend(func(want slab.Index) bool {
		if !rows.Next() {
			err = fmt.Errorf("%w: index %d is not live", ErrDiverged, want)
			return false
		}
		if got, _ := rows.Read(); got != want {
			err = fmt.Errorf("%w: expected index %d, found %d", ErrDiverged, want, got)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	if rows.Next() {
		got, _ := rows.Read()
		return fmt.Errorf("%w: index %d is live but not tracked", ErrDiverged, got)
	}
	return nil
}
