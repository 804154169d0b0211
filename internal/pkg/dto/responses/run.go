package responses

type Suite struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Serial      bool   `json:"serial"`
	Cases       int    `json:"cases"`
}
