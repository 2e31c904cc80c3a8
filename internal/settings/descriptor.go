package settings

// Descriptor describes one registered property together with its stored state.
type Descriptor struct {
	ID           uint64 `json:"id"`
	GroupName    string `json:"group"`
	PropertyName string `json:"property"`
	FullKey      string `json:"key"`
	DeclaredType string `json:"type"`
	DefaultValue string `json:"default"`
	CurrentValue string `json:"value"`
	Stored       bool   `json:"stored"`
}
