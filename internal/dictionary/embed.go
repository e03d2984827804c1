package dictionary

import _ "embed"

// Default dictionary sources, versioned with the binary. An external
// dictionary can replace them through LoadFrom.

//go:embed data/skills_tech.json
var defaultTechSkills []byte

//go:embed data/skills_soft.json
var defaultSoftSkills []byte

//go:embed data/profiles.json
var defaultProfiles []byte
