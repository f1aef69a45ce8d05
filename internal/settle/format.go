package settle

import (
	"fmt"

	"github.com/lmoreira/balanco/internal/domain"
	"github.com/lmoreira/balanco/internal/money"
)

// OwnerDisplayName is how the primary user appears in instructions.
const OwnerDisplayName = "Você"

// NothingOwedMessage is returned alone when every balance already nets
// to zero.
const NothingOwedMessage = "Ninguém deve nada no momento."

// FormatInstructions renders transfers as the pt-BR sentences the
// application shows, e.g. "Bob deve pagar R$ 40,00 para Você". An empty
// transfer list yields exactly the nothing-owed sentinel.
func FormatInstructions(transfers []Transfer, participants []domain.Participant) []string {
	if len(transfers) == 0 {
		return []string{NothingOwedMessage}
	}

	names := map[string]string{domain.OwnerID: OwnerDisplayName}
	for _, p := range participants {
		names[p.ID] = p.Name
	}

	out := make([]string, 0, len(transfers))
	for _, tr := range transfers {
		out = append(out, fmt.Sprintf("%s deve pagar %s para %s",
			displayName(names, tr.FromID), money.FormatBRL(tr.Amount), displayName(names, tr.ToID)))
	}
	return out
}

func displayName(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}
