// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/recsys/internal/data"
)

// Interaction is one observed user-item rating.
type Interaction struct {
	// UserID and ItemID are opaque comparable identifiers (int64, string, ...).
	UserID any `json:"user_id"`
	ItemID any `json:"item_id"`

	// Rating is the observed explicit feedback value.
	Rating float64 `json:"rating"`

	// Timestamp is when the interaction occurred, if known.
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Columns names the frame columns a model reads.
type Columns struct {
	User   string
	Item   string
	Rating string
}

// Interactions extracts interactions from f in row order.
// Missing columns yield data.ErrMissingColumns; a non-numeric rating is an error.
func Interactions(f *data.Frame, cols Columns) ([]Interaction, error) {
	schema := data.Schema{User: cols.User, Item: cols.Item, Rating: cols.Rating}
	if err := schema.Validate(f); err != nil {
		return nil, err
	}

	users, _ := f.Column(cols.User)
	items, _ := f.Column(cols.Item)
	ratings, _ := f.Column(cols.Rating)

	out := make([]Interaction, f.Len())
	for i := range out {
		r, ok := data.ToFloat(ratings[i])
		if !ok {
			return nil, fmt.Errorf("row %d: rating %v is not numeric", i, ratings[i])
		}
		out[i] = Interaction{UserID: users[i], ItemID: items[i], Rating: r}
	}
	return out, nil
}

// Model is a trainable, persistable recommender variant.
//
// Implementations must be safe for concurrent Recommend calls. Fit takes an
// exclusive lock for the whole training run.
type Model interface {
	// Name returns the registry name of the variant (e.g. "mf", "top_popular").
	Name() string

	// Fit trains the model from scratch on f. Cancellation of ctx is
	// observed between epochs.
	Fit(ctx context.Context, f *data.Frame) error

	// Recommend returns up to k item IDs for userID, best first.
	// Unknown users, k <= 0, and unfitted models yield an empty slice.
	Recommend(userID any, k int) []any

	// IsTrained reports whether Fit or a restore has completed.
	IsTrained() bool

	// Params returns the resolved construction parameters.
	Params() Params

	// MarshalState encodes the learned state (hyperparameters, index, factors).
	MarshalState() ([]byte, error)

	// UnmarshalState replaces the learned state wholesale.
	UnmarshalState(b []byte) error
}

// TrainingStatus summarizes a completed fit.
type TrainingStatus struct {
	Model            string        `json:"model"`
	RunID            string        `json:"run_id"`
	InteractionCount int           `json:"interaction_count"`
	Users            int           `json:"users,omitempty"`
	Items            int           `json:"items,omitempty"`
	Epochs           int           `json:"epochs,omitempty"`
	Duration         time.Duration `json:"duration"`
	Error            string        `json:"error,omitempty"`
}
