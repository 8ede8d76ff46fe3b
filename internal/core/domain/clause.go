package domain

import "strings"

// ClauseType identifies one of the fixed legal-clause archetypes.
type ClauseType string

// Available clause archetypes.
const (
	ClauseTermination     ClauseType = "Termination"
	ClauseLiability       ClauseType = "Liability"
	ClauseIndemnification ClauseType = "Indemnification"
	ClauseConfidentiality ClauseType = "Confidentiality"
	ClauseCopyright       ClauseType = "Copyright"
)

// ClauseTypes returns every archetype in presentation order.
func ClauseTypes() []ClauseType {
	return []ClauseType{
		ClauseTermination,
		ClauseLiability,
		ClauseIndemnification,
		ClauseConfidentiality,
		ClauseCopyright,
	}
}

// ParseClauseType resolves a clause type from its name, ignoring case.
func ParseClauseType(s string) (ClauseType, error) {
	for _, ct := range ClauseTypes() {
		if strings.EqualFold(string(ct), strings.TrimSpace(s)) {
			return ct, nil
		}
	}
	return "", ErrInvalidInput
}

// IsValid returns true if the clause type is recognised.
func (c ClauseType) IsValid() bool {
	_, ok := archetypeQueries[c]
	return ok
}

// String returns the string representation.
func (c ClauseType) String() string {
	return string(c)
}

// Query returns the natural-language description used as the semantic
// query for this archetype. Unknown types return an empty string.
func (c ClauseType) Query() string {
	return archetypeQueries[c]
}

var archetypeQueries = map[ClauseType]string{
	ClauseTermination: "A termination clause defines the grounds and procedures for ending the agreement. " +
		"It specifies permissible events like breaches, insolvency, or prolonged force majeure, along with " +
		"notice requirements. It includes provisions for post-termination obligations, such as returning or " +
		"destroying confidential data, and offers remedies like refunds for prepaid but unused services. " +
		"Certain rights, like data migration assistance, may extend into a designated transition period to " +
		"support seamless discontinuation.",
	ClauseLiability: "A liability clause sets limits on financial responsibility for damages caused under the " +
		"contract. It outlines exclusions for indirect, punitive, or consequential damages, and often caps " +
		"recoverable amounts to fees paid within a specified period. The clause can provide carve-outs for " +
		"gross negligence, breaches of confidentiality, or specific indemnity obligations, ensuring " +
		"accountability while controlling risk exposure.",
	ClauseIndemnification: "An indemnification clause establishes obligations for one party to indemnify the " +
		"other against potential losses or damages. This includes compensating for harm arising from contract " +
		"violations, security breaches, or intellectual property infringement. The clause details procedural " +
		"steps, such as timely notice of claims and cooperation in the defense process. It also specifies " +
		"conditions under which indemnification is excluded, such as unauthorized use or client-provided designs.",
	ClauseConfidentiality: "A confidentiality clause safeguards sensitive information shared during the " +
		"agreement. It defines what constitutes confidential information, mandates its secure handling, and " +
		"restricts disclosure to authorized individuals. Exceptions may include public domain knowledge or " +
		"legal obligations. The clause specifies retention periods, destruction protocols, and equitable " +
		"remedies like injunctive relief for breaches.",
	ClauseCopyright: "A copyright clause delineates intellectual property rights over materials created during " +
		"the contract. It specifies ownership of pre-existing IP, assigns rights to developed works, and defines " +
		"licensing terms for use. The clause includes provisions for protecting proprietary content from misuse " +
		"and outlines scenarios for transferring rights or addressing disputes, balancing innovation and ownership.",
}

// ClauseCandidate is a passage returned for a clause archetype query.
// It is a query-time projection and is never persisted.
type ClauseCandidate struct {
	Passage

	// Distance is the index's dissimilarity score; lower is more similar.
	Distance float64 `json:"distance"`

	// ClauseType is the archetype the passage was retrieved for.
	ClauseType ClauseType `json:"type"`
}
