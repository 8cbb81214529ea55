package publication

// CreatePublicationReq carries book fields for type=book and magazine
// fields for type=magazine; the service validates the combination.
type CreatePublicationReq struct {
	Title     string `json:"title" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=book magazine"`
	Author    string `json:"author"`
	ISBN      string `json:"isbn"`
	Category  string `json:"category"`
	Issue     string `json:"issue"`
	Publisher string `json:"publisher"`
	IsLatest  bool   `json:"is_latest"`
}
