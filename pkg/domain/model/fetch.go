package model

// FetchResult represents the outcome of fetching and extracting a devkit
type FetchResult struct {
	Archive    string          // Path to the downloaded archive
	DepsDir    string          // Dependencies directory the archive was extracted in
	Size       int64           // Archive size in bytes
	Downloaded bool            // False when an existing archive was reused
	Contents   *DevkitContents // What the extracted devkit provides
}

// DevkitContents lists the files found in the dependencies directory after extraction
type DevkitContents struct {
	Headers   []string // C headers, relative to the dependencies directory
	Libraries []string // Static and shared libraries
	Files     []string // Every regular file
	Size      int64    // Total size in bytes
}

// HasHeader reports whether a header with the given base name was found
func (c *DevkitContents) HasHeader(name string) bool {
	return containsBase(c.Headers, name)
}

// HasLibrary reports whether a library with the given base name was found
func (c *DevkitContents) HasLibrary(name string) bool {
	return containsBase(c.Libraries, name)
}
