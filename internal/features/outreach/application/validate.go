package application

import (
	"encoding/json"
	"fmt"
	"strings"

	"cold-email-generator/internal/features/outreach/domain"
)

// minRecordSize is the smallest serialized record considered to carry real content.
const minRecordSize = 100

// planLimitationMarkers identify upstream errors caused by the scraping plan.
var planLimitationMarkers = []string{
	"free apify plan",
	"paid plan",
}

const privateProfileHint = "Profile data could not be retrieved properly. Please ensure the profile is public."

// ValidateEntityData checks a fetched payload and normalizes it into an Entity.
// payload may be a record or a list whose first element is the record.
func ValidateEntityData(entityType domain.EntityType, payload any) (*domain.Entity, error) {
	noun := "profile"
	details := privateProfileHint
	if entityType == domain.EntityCompany {
		noun = "company"
		details = "Company data could not be retrieved properly."
	}

	incomplete := func(msg string, cause error) error {
		return domain.NewError(domain.KindIncompleteData, msg, cause).WithDetails(details)
	}

	if list, ok := payload.([]any); ok {
		if len(list) == 0 {
			return nil, incomplete(fmt.Sprintf("No %s data in array", noun), nil)
		}
		payload = list[0]
	}

	var raw domain.RawRecord
	switch p := payload.(type) {
	case map[string]any:
		raw = p
	case domain.RawRecord:
		raw = p
	}
	if len(raw) == 0 {
		return nil, incomplete(fmt.Sprintf("No %s data received", noun), nil)
	}

	if upstream, ok := raw["error"]; ok {
		msg := fmt.Sprint(upstream)
		if upstream == nil || msg == "" {
			msg = "Unknown error"
		}
		if isPlanLimitation(msg) {
			return nil, incomplete(fmt.Sprintf(
				"Unable to fetch %s. This feature requires a paid Apify subscription. Please upgrade your Apify plan or use the Apify UI directly.", noun),
				domain.ErrPlanLimitation)
		}
		return nil, incomplete(msg, nil)
	}

	entity := domain.NormalizeRecord(entityType, raw)

	if entity.Name == "" {
		if entityType == domain.EntityCompany {
			return nil, incomplete("Company data is incomplete. Missing company name.", nil)
		}
		return nil, incomplete("Profile data is incomplete. Missing name information. The profile may be private or restricted.", nil)
	}

	if entityType == domain.EntityPerson && entity.Headline == "" {
		return nil, incomplete("Profile data is incomplete. Missing headline information. The profile may be private or restricted.", nil)
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, incomplete(fmt.Sprintf("%s data could not be serialized", noun), err)
	}
	if len(encoded) < minRecordSize {
		if entityType == domain.EntityCompany {
			return nil, incomplete("Company data appears incomplete.", nil)
		}
		return nil, incomplete("Profile data appears incomplete. The profile may be private or have limited information.", nil)
	}

	return &entity, nil
}

func isPlanLimitation(msg string) bool {
	lower := strings.ToLower(msg)
	for _, marker := range planLimitationMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
