package config

// Balefile represents the structure of the bale.yaml build specification.
type Balefile struct {
	ToolchainTag string `yaml:"toolchain_tag"`
	WordSize     int    `yaml:"word_size"`
	Platform     string `yaml:"platform"`
	TargetArch   string `yaml:"target_arch"`

	CacheDir string `yaml:"cache_dir"`
	WorkDir  string `yaml:"work_dir"`
	DistDir  string `yaml:"dist_dir"`

	Strip       bool     `yaml:"strip"`
	UPX         bool     `yaml:"upx"`
	UPXDir      string   `yaml:"upx_dir"`
	UPXExcludes []string `yaml:"upx_excludes"`

	BindingRedirects  []RedirectDTO `yaml:"binding_redirects"`
	PrivateAssemblies bool          `yaml:"private_assemblies"`

	CodesignIdentity     string `yaml:"codesign_identity"`
	EntitlementsFile     string `yaml:"entitlements_file"`
	StrictArchValidation bool   `yaml:"strict_arch_validation"`

	SearchPaths     []string `yaml:"search_paths"`
	CompilerCommand []string `yaml:"compiler_command"`

	Collect []CollectDTO `yaml:"collect"`
}

// RedirectDTO represents a binding redirect rule in the configuration.
type RedirectDTO struct {
	Name           string `yaml:"name"`
	Language       string `yaml:"language"`
	Arch           string `yaml:"arch"`
	PublicKeyToken string `yaml:"public_key_token"`
	OldVersion     string `yaml:"old_version"`
	NewVersion     string `yaml:"new_version"`
}

// CollectDTO represents one collection instruction in the configuration.
type CollectDTO struct {
	Source string `yaml:"source"`
	Dest   string `yaml:"dest"`
	Kind   string `yaml:"kind"`
}
