// Copyright (c) 2026 Souq. All rights reserved.

package accesscode

import (
	"context"

	"github.com/souqhq/souq/pkg/pagination"
)

// # Data Access

// Repository defines the storage contract for issued access codes.
//
// There is deliberately no update or delete: codes mutate only through
// redemption, which the auth domain performs atomically.
type Repository interface {

	/*
		CreateBatch persists every code of a generation batch.

		Parameters:
		  - context: context.Context
		  - codes: []*AccessCode

		Returns:
		  - error: Persistence failures (including rare code collisions)
	*/
	CreateBatch(context context.Context, codes []*AccessCode) error

	/*
		List returns codes ordered newest-first with the total count.

		Parameters:
		  - context: context.Context
		  - params: pagination.Params

		Returns:
		  - []AccessCode: One page of codes
		  - int: Total code count
		  - error: Retrieval failures
	*/
	List(context context.Context, params pagination.Params) ([]AccessCode, int, error)
}
