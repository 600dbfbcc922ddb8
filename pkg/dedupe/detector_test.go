package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairgroundhq/trellis/pkg/models"
)

func company(id, name, contactName, email, phone string) models.Company {
	return models.Company{
		ID:           id,
		Name:         name,
		ContactName:  contactName,
		ContactEmail: email,
		Phone:        phone,
	}
}

func TestDetectExactDuplicate(t *testing.T) {
	companies := []models.Company{
		company("1", "Innovation Labs", "", "contact@innovationlabs.com", "+33333333333"),
		company("2", "Innovation Labs", "", "contact@innovationlabs.com", "+33333333333"),
	}

	groups := Detect(companies)

	require.Len(t, groups, 1)
	assert.Equal(t, 1.0, groups[0].Similarity)
	assert.Equal(t, "exact duplicate", groups[0].Reason)
	require.Len(t, groups[0].Potential, 2)
	assert.Equal(t, "1", groups[0].Potential[0].ID)
	assert.Equal(t, "2", groups[0].Potential[1].ID)
}

func TestDetectSimilarNames(t *testing.T) {
	companies := []models.Company{
		company("1", "Acme Corporation", "", "a@acme.com", "111"),
		company("2", "Acme Corp", "", "b@acme.com", "222"),
	}

	groups := Detect(companies)

	require.Len(t, groups, 1)
	assert.Greater(t, groups[0].Similarity, 0.7)
	assert.Less(t, groups[0].Similarity, 1.0)
	assert.InDelta(t, 0.9125, groups[0].Similarity, 1e-9)
	assert.Contains(t, groups[0].Reason, "similar")
}

func TestDetectUnrelatedCompanies(t *testing.T) {
	companies := []models.Company{
		company("1", "Company One", "", "one@one.com", "111111"),
		company("2", "Completely Different Company", "", "two@two.com", "999999"),
	}

	assert.Empty(t, Detect(companies))
}

func TestDetectFewerThanTwo(t *testing.T) {
	assert.Empty(t, Detect(nil))
	assert.Empty(t, Detect([]models.Company{company("1", "Solo", "", "", "")}))
}

func TestDetectIdenticalEmailOnly(t *testing.T) {
	companies := []models.Company{
		company("1", "Northwind Traders", "", "shared@corp.com", ""),
		company("2", "Fabrikam Industries", "", "shared@corp.com", ""),
	}

	groups := Detect(companies)

	require.Len(t, groups, 1)
	assert.Equal(t, "identical contact email", groups[0].Reason)
	// Group similarity averages name similarity, not the email signal,
	// so it sits well below the 0.95 email confidence.
	assert.Less(t, groups[0].Similarity, 0.95)
}

func TestDetectEmailReasonOverwritesNameReason(t *testing.T) {
	// Names score above the email signal's 0.95, so the email branch leaves
	// the numeric similarity on the name value but still overwrites the
	// reason because it fires later.
	companies := []models.Company{
		company("1", "Acme Corporation", "", "shared@acme.com", ""),
		company("2", "Acme Corporations", "", "shared@acme.com", ""),
	}

	groups := Detect(companies)

	require.Len(t, groups, 1)
	assert.Equal(t, "identical contact email", groups[0].Reason)
	assert.Greater(t, groups[0].Similarity, emailMatchSimilarity)
}

func TestDetectPhoneSimilarity(t *testing.T) {
	// Formatting differences vanish after digit normalization.
	companies := []models.Company{
		company("1", "Globex", "", "", "+1 (555) 010-9999"),
		company("2", "Initech", "", "", "15550109999"),
	}

	groups := Detect(companies)

	require.Len(t, groups, 1)
	assert.Contains(t, groups[0].Reason, "phone")
}

func TestDetectContactNameRequiresSimilarCompanyNames(t *testing.T) {
	// Identical contact names on unrelated companies must not match:
	// the contact-name signal is gated on company-name similarity above 0.7.
	companies := []models.Company{
		company("1", "Company One", "Jane Smith", "", ""),
		company("2", "Completely Different Company", "Jane Smith", "", ""),
	}

	assert.Empty(t, Detect(companies))
}

func TestDetectContactNameCombinedSignal(t *testing.T) {
	companies := []models.Company{
		company("1", "Acme Events", "Jane Smith", "", ""),
		company("2", "Acme Event", "Jane Smyth", "", ""),
	}

	groups := Detect(companies)

	require.Len(t, groups, 1)
	assert.Equal(t, "company and contact names similar", groups[0].Reason)
}

func TestDetectGreedyGrouping(t *testing.T) {
	// Three copies of the same name collapse into one group headed by the
	// first record; members never seed their own groups afterwards.
	companies := []models.Company{
		company("1", "Acme Corporation", "", "", ""),
		company("2", "Acme Corporation", "", "", ""),
		company("3", "Acme Corporation", "", "", ""),
		company("4", "Unrelated Ventures", "", "", ""),
	}

	groups := Detect(companies)

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Potential, 3)
	assert.Equal(t, "1", groups[0].Potential[0].ID)
}

func TestDetectSortsGroupsBySimilarityDescending(t *testing.T) {
	companies := []models.Company{
		company("1", "Acme Corporation", "", "", ""),
		company("2", "Acme Corporatio", "", "", ""),
		company("3", "Innovation Labs", "", "", ""),
		company("4", "Innovation Labs", "", "", ""),
	}

	groups := Detect(companies)

	require.Len(t, groups, 2)
	assert.Equal(t, 1.0, groups[0].Similarity)
	assert.Equal(t, "Innovation Labs", groups[0].Potential[0].Name)
	assert.Greater(t, groups[0].Similarity, groups[1].Similarity)
}

func TestDetectAfterMergeDoesNotRereport(t *testing.T) {
	master := company("1", "Acme Corporation", "", "", "")
	duplicate := company("2", "Acme Corp", "", "", "")

	groups := Detect([]models.Company{master, duplicate})
	require.Len(t, groups, 1)

	// The duplicate no longer exists after a merge; the survivor alone
	// produces no groups.
	assert.Empty(t, Detect([]models.Company{master}))
}

func TestComparePairBelowThreshold(t *testing.T) {
	similarity, reason := comparePair(
		company("1", "Company One", "", "", ""),
		company("2", "Completely Different Company", "", "", ""),
	)

	assert.LessOrEqual(t, similarity, groupThreshold)
	assert.Empty(t, reason)
}
