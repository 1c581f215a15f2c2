package models

// LatestResponse is the body of GET /latest.
type LatestResponse struct {
	Success bool          `json:"success"`
	Results []CatalogItem `json:"results"`
}

// PageResponse is the body of GET /release/{page} and GET /search/{query}.
// A missing data field decodes to nil.
type PageResponse struct {
	Data []CatalogItem `json:"data"`
}

// DetailResponse is the body of GET /get?url=.
type DetailResponse struct {
	Success bool        `json:"success"`
	Data    *ItemDetail `json:"data"`
}
