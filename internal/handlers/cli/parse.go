package cli

import (
	"regexp"
	"strings"

	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/pkg/types"
)

// walletSeparators splits pasted wallet lists: newlines, commas, semicolons,
// or the "///" divider some export tools emit between addresses.
var walletSeparators = regexp.MustCompile(`\r?\n|///|,|;`)

// ParseWalletList splits free-form text into wallet addresses. Entries are
// trimmed, stripped of surrounding quotes and deduplicated, keeping first-seen
// order. No address validation happens here.
func ParseWalletList(raw string) []string {
	set := types.NewOrderedSet[string]()

	for _, part := range walletSeparators.Split(raw, -1) {
		part = strings.TrimSpace(part)
		part = strings.Trim(part, `"'`)
		part = strings.TrimSpace(part)

		if part != "" {
			set.Add(part)
		}
	}

	return set.ToSlice()
}
