package memory

import "quill/internal/domain/models"

// SeedNotebooks returns the development fixture set served by the in-memory
// driver. The public notebooks are visible to every caller.
func SeedNotebooks() []models.Notebook {
	return []models.Notebook{
		{
			ID:      "0",
			Name:    "Seneca",
			Owner:   "x5e2612d-4eb7-4265-b4b5-4c845a2825f7",
			Content: "We suffer more often in imagination than in reality. Difficulties strengthen the mind, as labor does the body.",
			Public:  true,
		},
		{
			ID:      "1",
			Name:    "Marcus Aurelius",
			Owner:   "x5e2612d-4eb7-4265-b4b5-4c845a2825f7",
			Content: "You have power over your mind, not outside events. Realize this, and you will find strength.",
			Public:  true,
		},
		{
			ID:      "2",
			Name:    "Work Projects",
			Owner:   "b5e2612d-4eb7-4265-b4b5-4c845a2825f7",
			Content: "Quarterly planning notes.",
		},
		{
			ID:      "3",
			Name:    "Personal Journal",
			Owner:   "b5e2612d-4eb7-4265-b4b5-4c845a2825f7",
			Content: "Morning pages.",
		},
	}
}
