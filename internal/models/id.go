package models

import "github.com/google/uuid"

// ID prefixes, one per record kind, so identifiers are self-describing in
// logs and event payloads.
const (
	IDPrefixWorkOrder = "wo"
	IDPrefixInvoice   = "inv"
	IDPrefixCompany   = "cmp"
	IDPrefixCredit    = "crd"
	IDPrefixPayment   = "pay"
	IDPrefixEvent     = "evt"
)

// NewID returns a prefixed UUID identifier, e.g. "inv_8f14e45f-…".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
