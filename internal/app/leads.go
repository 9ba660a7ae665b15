package app

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"marzi/internal/domain"
)

// LeadService writes enquiry rows to the leads sheet. Submit always
// resolves to a LeadResult: the form on the other end renders a message,
// it does not catch errors.
type LeadService struct {
	store    domain.SheetStore
	validate *validator.Validate
	now      func() time.Time
}

func NewLeadService(store domain.SheetStore) *LeadService {
	return &LeadService{
		store:    store,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Validate reports a user-facing message for a bad form, "" when the form
// is acceptable. Exposed so the HTTP edge can answer 400 before Submit.
func (s *LeadService) Validate(form domain.LeadForm) string {
	if err := s.validate.Struct(form); err != nil {
		return validationMessage(err)
	}
	return ""
}

func (s *LeadService) Submit(ctx context.Context, form domain.LeadForm) domain.LeadResult {
	// Defense in depth: callers are expected to validate first, but this
	// layer does not trust them. Invalid input never reaches the network.
	if msg := s.Validate(form); msg != "" {
		return domain.LeadResult{Error: msg}
	}

	row := leadRow(form, s.now().UTC().Format(time.RFC3339))
	if err := s.store.AppendRow(ctx, SheetLeads, row); err != nil {
		log.Error().Err(err).Str("packageId", form.PackageID).Msg("lead submit failed")
		return domain.LeadResult{Error: "could not submit your enquiry right now, please try again"}
	}
	return domain.LeadResult{Success: true}
}

func validationMessage(err error) string {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			switch fe.Field() {
			case "Name", "Phone":
				return "name, email, and phone are required"
			case "Email":
				if fe.Tag() == "email" {
					return "please enter a valid email address"
				}
				return "name, email, and phone are required"
			}
		}
	}
	return "invalid enquiry form"
}
