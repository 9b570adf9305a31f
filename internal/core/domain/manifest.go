package domain

// CommonControlsAssembly is the one well-known system dependency that is
// never converted to a private assembly because it is never bundled.
const CommonControlsAssembly = "Microsoft.Windows.Common-Controls"

// AssemblyRef identifies a dependency manifest assembly.
type AssemblyRef struct {
	Name           string
	Version        string
	Arch           string
	Language       string
	PublicKeyToken string
}

// AssemblyManifest is the parsed form of a dependency manifest: the
// assembly's own identity plus the assemblies it binds against.
type AssemblyManifest struct {
	Identity  AssemblyRef
	Dependent []AssemblyRef
}

// BindingRedirect remaps a dependent assembly's declared version to a new
// version. Redirects participate in cache digests because they change the
// effective output even when the source bytes do not.
type BindingRedirect struct {
	Name           string `yaml:"name" cbor:"1,keyasint"`
	Language       string `yaml:"language" cbor:"2,keyasint"`
	Arch           string `yaml:"arch" cbor:"3,keyasint"`
	PublicKeyToken string `yaml:"public_key_token" cbor:"4,keyasint"`
	OldVersion     string `yaml:"old_version" cbor:"5,keyasint"`
	NewVersion     string `yaml:"new_version" cbor:"6,keyasint"`
}

// Matches reports whether the redirect applies to the given dependent
// assembly. All identity fields must match exactly.
func (r BindingRedirect) Matches(ref AssemblyRef) bool {
	return r.Name == ref.Name &&
		r.OldVersion == ref.Version &&
		r.Arch == ref.Arch &&
		r.Language == ref.Language &&
		r.PublicKeyToken == ref.PublicKeyToken
}
