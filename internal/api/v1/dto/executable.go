package dto

// ExecutableInfo describes where one external tool will be launched from
type ExecutableInfo struct {
	Configured string   `json:"configured"`
	Resolved   string   `json:"resolved"`
	Found      bool     `json:"found"`
	Candidates []string `json:"candidates,omitempty"`
}

// ExecutablesResponse is served on /api/v1/executables
type ExecutablesResponse struct {
	Normalizer  ExecutableInfo `json:"normalizer"`
	Transcriber ExecutableInfo `json:"transcriber"`
	ModelPath   string         `json:"model_path,omitempty"`
}
