package dedupe

import (
	"fmt"
	"sort"

	"github.com/fairgroundhq/trellis/pkg/models"
	"github.com/fairgroundhq/trellis/pkg/normalizers"
)

// Signal-specific confidence thresholds. groupThreshold is the minimum bar
// for a pair to be reported at all; the others gate individual signals and
// are deliberately higher to limit false positives on short company names.
const (
	groupThreshold       = 0.7
	nameThreshold        = 0.85
	phoneThreshold       = 0.9
	emailMatchSimilarity = 0.95
	contactNameThreshold = 0.85
	contactNameNameFloor = 0.7
)

type pairMatch struct {
	company models.Company
	reason  string
}

// Detect partitions companies into duplicate groups using pairwise
// field-similarity signals. Grouping is a greedy single pass: once a company
// is absorbed into a group it is never reconsidered as the head of its own,
// which is an accepted approximation for the small clusters this domain sees.
func Detect(companies []models.Company) []models.DuplicateGroup {
	if len(companies) < 2 {
		return nil
	}

	processed := make(map[string]bool, len(companies))
	var groups []models.DuplicateGroup

	for i := 0; i < len(companies); i++ {
		if processed[companies[i].ID] {
			continue
		}

		var matches []pairMatch
		for j := i + 1; j < len(companies); j++ {
			if processed[companies[j].ID] {
				continue
			}
			similarity, reason := comparePair(companies[i], companies[j])
			if similarity > groupThreshold {
				matches = append(matches, pairMatch{company: companies[j], reason: reason})
			}
		}

		if len(matches) == 0 {
			continue
		}

		potential := make([]models.Company, 0, len(matches)+1)
		potential = append(potential, companies[i])
		processed[companies[i].ID] = true

		var nameSimilarityTotal float64
		for _, m := range matches {
			potential = append(potential, m.company)
			processed[m.company.ID] = true
			nameSimilarityTotal += nameSimilarity(companies[i].Name, m.company.Name)
		}

		groups = append(groups, models.DuplicateGroup{
			Potential:  potential,
			Similarity: nameSimilarityTotal / float64(len(matches)),
			Reason:     matches[0].reason,
		})
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Similarity > groups[b].Similarity
	})

	return groups
}

// comparePair evaluates the four match signals in order, keeping the maximum
// similarity seen. The reason string is overwritten by every signal that
// fires, so it can end up describing a weaker signal than the one that set
// the numeric value. Downstream consumers rely on the current wording, so
// this stays as is.
func comparePair(a, b models.Company) (float64, string) {
	similarity := 0.0
	reason := ""

	// The name signal uses the prefix-boosted score so truncated names
	// ("Acme Corporation" / "Acme Corp") clear the gate; the contact-name
	// floor below stays on the plain edit-distance score, which keeps
	// shared contacts at unrelated companies from matching.
	nameScore := nameSimilarity(a.Name, b.Name)
	if nameScore > nameThreshold {
		similarity = nameScore
		reason = fmt.Sprintf("names very similar (%.0f%%)", nameScore*100)
	}

	if a.ContactEmail != "" && b.ContactEmail != "" && a.ContactEmail == b.ContactEmail {
		if emailMatchSimilarity > similarity {
			similarity = emailMatchSimilarity
		}
		reason = "identical contact email"
	}

	phoneA := normalizers.NormalizePhone(a.Phone)
	phoneB := normalizers.NormalizePhone(b.Phone)
	if phoneA != "" && phoneB != "" {
		phoneSimilarity := Similarity(phoneA, phoneB)
		if phoneSimilarity > phoneThreshold {
			if phoneSimilarity > similarity {
				similarity = phoneSimilarity
			}
			reason = fmt.Sprintf("phone numbers very similar (%.0f%%)", phoneSimilarity*100)
		}
	}

	if a.ContactName != "" && b.ContactName != "" {
		contactSimilarity := Similarity(a.ContactName, b.ContactName)
		plainNameSimilarity := Similarity(a.Name, b.Name)
		if contactSimilarity > contactNameThreshold && plainNameSimilarity > contactNameNameFloor {
			combined := (contactSimilarity + plainNameSimilarity) / 2
			if combined > similarity {
				similarity = combined
			}
			reason = "company and contact names similar"
		}
	}

	if isExactDuplicate(a, b) {
		return 1.0, "exact duplicate"
	}

	return similarity, reason
}

// isExactDuplicate reports whether two records agree on name (normalized)
// and on email and phone, where agreement includes both sides being empty.
func isExactDuplicate(a, b models.Company) bool {
	if normalizers.NormalizeName(a.Name) != normalizers.NormalizeName(b.Name) {
		return false
	}
	return a.ContactEmail == b.ContactEmail && a.Phone == b.Phone
}
