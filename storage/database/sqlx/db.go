// Package sqlxrepos implements the local repositories on top of postgres.
package sqlxrepos

import (
	"encoding/json"

	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"
)

func toJSON(v interface{}) (types.JSONText, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encoding json column")
	}
	return types.JSONText(b), nil
}
