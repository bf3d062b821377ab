package agentgraph

// Version information for the agentgraph module.
const (
	// Version is the current module version.
	Version = "development"

	// APIVersion is the current API version.
	APIVersion = "v1alpha1"
)
