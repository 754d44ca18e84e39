package root

import (
	"fmt"
	"io"
	"strings"

	"questvault/internal/engine"
	"questvault/internal/storage"
	"questvault/internal/ui"
)

func printResponse(w io.Writer, title string, res *engine.Response) {
	fmt.Fprintln(w, ui.Heading(ui.IconDone, title))
	for _, a := range res.Attributes {
		fmt.Fprintln(w, ui.LabelValue(a.Key, a.Value))
	}
	for _, e := range res.Effects {
		fmt.Fprintf(w, "%s %s\n", ui.EffectIcon(string(e.Kind)), describeEffect(e))
	}
}

func describeEffect(e storage.Effect) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s -> %s", e.Kind, e.Contract.Address)
	if e.Recipient != "" {
		fmt.Fprintf(&b, " to=%s", e.Recipient)
	}
	if e.AssetID != "" {
		fmt.Fprintf(&b, " asset=%s", e.AssetID)
	}
	if len(e.AssetIDs) > 0 {
		fmt.Fprintf(&b, " assets=%s", strings.Join(e.AssetIDs, ","))
	}
	if e.Kind == storage.EffectTransferReward {
		fmt.Fprintf(&b, " amount=%d", e.Amount)
	}
	return b.String() + " " + ui.Muted.Render("("+e.ID+")")
}
