package merging

import "github.com/fairgroundhq/trellis/pkg/models"

// resolveFields computes the merged field set to persist on the master.
// Per field: an explicit override wins, else the master's non-empty value,
// else the duplicate's. Name and status stay on the master's value with no
// duplicate fallback unless overridden.
func resolveFields(master, duplicate *models.Company, overrides *models.FieldOverrides) map[string]any {
	if overrides == nil {
		overrides = &models.FieldOverrides{}
	}

	status := master.Status
	if overrides.Status != nil {
		status = *overrides.Status
	}

	return map[string]any{
		"name":           overrideOr(overrides.Name, master.Name),
		"contact_name":   preferNonEmpty(overrides.ContactName, master.ContactName, duplicate.ContactName),
		"contact_email":  preferNonEmpty(overrides.ContactEmail, master.ContactEmail, duplicate.ContactEmail),
		"phone":          preferNonEmpty(overrides.Phone, master.Phone, duplicate.Phone),
		"status":         status,
		"booth_number":   preferNonEmpty(overrides.BoothNumber, master.BoothNumber, duplicate.BoothNumber),
		"booth_location": preferNonEmpty(overrides.BoothLocation, master.BoothLocation, duplicate.BoothLocation),
		"booth_size":     preferNonEmpty(overrides.BoothSize, master.BoothSize, duplicate.BoothSize),
	}
}

func overrideOr(override *string, value string) string {
	if override != nil {
		return *override
	}
	return value
}

func preferNonEmpty(override *string, master, duplicate string) string {
	if override != nil {
		return *override
	}
	if master != "" {
		return master
	}
	return duplicate
}
