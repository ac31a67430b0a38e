package services

import (
	"context"
	"time"
)

// storeTimeout bounds every document store call.
const storeTimeout = 10 * time.Second

func storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storeTimeout)
}

// withoutID drops _id so a $set payload never targets the immutable key.
func withoutID(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if k != "_id" {
			out[k] = v
		}
	}
	return out
}
