package rolldev

// Environment is one running project environment reported by
// `rolldev status`.
type Environment struct {
	// Name is the project identifier, the first word of the project
	// header line. Never empty in an emitted record.
	Name string `json:"name"`
	// Path is the project directory, empty when not reported.
	Path string `json:"path,omitempty"`
	// URL is the project URL, empty when not reported.
	URL string `json:"url,omitempty"`
	// Network is the Docker network name, empty when not reported.
	Network string `json:"network,omitempty"`
	// Containers is the running container count. Seeing this field is
	// what closes the record.
	Containers int `json:"containers"`
	// Raw is the unmodified source line that supplied Containers, kept
	// for diagnostics.
	Raw string `json:"raw"`
}
