// Copyright (c) 2026 Souq. All rights reserved.

package accesscode

import (
	"context"
	"fmt"
	"time"

	"github.com/souqhq/souq/internal/admin/audit"
	"github.com/souqhq/souq/internal/platform/sec"
	"github.com/souqhq/souq/pkg/pagination"
	"github.com/souqhq/souq/pkg/uuidv7"
)

// # Service

// Service implements the access-code issuance use cases.
type Service struct {
	repository Repository
	auditLog   audit.Recorder
}

// NewService constructs a new accesscode [Service] with necessary dependencies.
func NewService(repository Repository, auditLog audit.Recorder) *Service {
	return &Service{
		repository: repository,
		auditLog:   auditLog,
	}
}

// # Issuance

// GenerateInput holds the parameters for a code generation batch.
type GenerateInput struct {
	AdminID     string
	Role        sec.Role
	ValidDays   int
	UsesAllowed int
	Count       int
	Note        string
}

// batchSummary is the audit snapshot appended once per generation batch.
// Individual code strings are deliberately not retained in the audit trail.
type batchSummary struct {
	Count       int      `json:"count"`
	Role        sec.Role `json:"role"`
	ValidDays   int      `json:"validDays"`
	UsesAllowed int      `json:"usesAllowed"`
}

/*
GenerateCodes mints a batch of independent activation codes.

Description: Each code is an 8-character uppercase alphanumeric string with
validFrom = now and validUntil = now + validDays. All codes of the batch are
persisted, then exactly one audit entry summarizing the batch is appended.

Parameters:
  - context: context.Context
  - input: GenerateInput (Count defaults to 1, Note to "<role> access code")

Returns:
  - []AccessCode: The generated codes, including their code strings
  - err: Generation or persistence failures
*/
func (service *Service) GenerateCodes(context context.Context, input GenerateInput) ([]AccessCode, error) {

	// Handler validation guarantees ranges; defaults still live here so
	// non-HTTP callers (the seeder) get the same behavior.
	if input.Count == 0 {
		input.Count = 1
	}
	if input.Note == "" {
		input.Note = string(input.Role) + " access code"
	}

	validFrom := time.Now()
	validUntil := validFrom.AddDate(0, 0, input.ValidDays)

	codes := make([]*AccessCode, 0, input.Count)
	for range input.Count {
		codeString, err := GenerateCode()
		if err != nil {
			return nil, err
		}

		codes = append(codes, &AccessCode{
			ID:          uuidv7.New(),
			Code:        codeString,
			Role:        input.Role,
			ValidFrom:   validFrom,
			ValidUntil:  validUntil,
			UsesAllowed: input.UsesAllowed,
			UsesCount:   0,
			IsUsed:      false,
			IssuedBy:    input.AdminID,
			Note:        input.Note,
		})
	}

	if err := service.repository.CreateBatch(context, codes); err != nil {
		return nil, fmt.Errorf("accesscode_service_generate_failed: %w", err)
	}

	// One audit entry per batch, not per code
	entry := &audit.Entry{
		ID:           uuidv7.New(),
		AdminID:      input.AdminID,
		Action:       audit.ActionAccessCodesGenerated,
		ResourceType: "access_code",
		NewValue: audit.Snapshot(batchSummary{
			Count:       input.Count,
			Role:        input.Role,
			ValidDays:   input.ValidDays,
			UsesAllowed: input.UsesAllowed,
		}),
	}

	if err := service.auditLog.Append(context, entry); err != nil {
		return nil, fmt.Errorf("accesscode_service_audit_failed: %w", err)
	}

	generated := make([]AccessCode, 0, len(codes))
	for _, code := range codes {
		generated = append(generated, *code)
	}

	return generated, nil
}

// # Listing

/*
ListCodes returns issued codes ordered newest-first.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []AccessCode: One page of codes
  - int: Total code count
  - err: Retrieval failures
*/
func (service *Service) ListCodes(context context.Context, params pagination.Params) ([]AccessCode, int, error) {
	return service.repository.List(context, params)
}
