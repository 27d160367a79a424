package core

import (
	"context"
	"fmt"
)

// Register adds one participant.
//
// Missing fields and duplicates are reported in the result with OK=false;
// the returned error is reserved for store failures. The duplicate check and
// the append happen inside one store update, so two desks registering the
// same person at once produce exactly one record.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (RegisterResult, error) {
	req = req.Trimmed()
	if errs := ValidateRegistration(req); len(errs) > 0 {
		return RegisterResult{OK: false, Message: MsgRequiredFields}, nil
	}

	key := IdentityKey(req.Name, req.District)
	var result RegisterResult

	err := s.repo.Update(ctx, func(t Table) (Table, bool, error) {
		if KeysOf(t).Has(key) {
			result = RegisterResult{OK: false, Message: MsgAlreadyRegistered}
			return t, false, nil
		}

		p := Participant{
			No:           t.MaxNo() + 1,
			Name:         req.Name,
			Association:  req.Association,
			District:     req.District,
			Province:     req.Province,
			RegisteredOn: s.now().Format(TimestampLayout),
		}
		result = RegisterResult{OK: true, Message: MsgRegistrationSaved, Participant: &p}
		return append(t, p), true, nil
	})
	if err != nil {
		return RegisterResult{}, fmt.Errorf("register %q: %w", req.Name, err)
	}

	if result.OK {
		s.audit.Record(ctx, AuditEntry{
			Action:       ActionRegister,
			RowKey:       key,
			RowsAffected: 1,
		})
	}
	return result, nil
}
