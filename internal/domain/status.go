package domain

// OwnershipMarker is the status emoji attached to every status the sync loop sets.
const OwnershipMarker = ":musical_note:"

type RemoteStatus struct {
	Text  string
	Emoji string
}

func (s RemoteStatus) OwnedBy(marker string) bool {
	return s.Emoji == marker
}

// ChangedExternally reports a non-empty status that does not carry the marker.
func (s RemoteStatus) ChangedExternally(marker string) bool {
	return s.Text != "" && !s.OwnedBy(marker)
}
