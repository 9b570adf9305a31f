package winmanifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balebuild/bale/internal/adapters/winmanifest"
	"github.com/balebuild/bale/internal/core/domain"
)

const sampleManifest = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<assembly xmlns="urn:schemas-microsoft-com:asm.v1" manifestVersion="1.0">
  <assemblyIdentity type="win32" name="app.exe" version="1.0.0.0" processorArchitecture="amd64"/>
  <trustInfo xmlns="urn:schemas-microsoft-com:asm.v3">
    <security>
      <requestedPrivileges>
        <requestedExecutionLevel level="asInvoker" uiAccess="false"/>
      </requestedPrivileges>
    </security>
  </trustInfo>
  <dependency>
    <dependentAssembly>
      <assemblyIdentity type="win32" name="Microsoft.VC90.CRT" version="9.0.21022.8"
        processorArchitecture="amd64" publicKeyToken="1fc8b3b9a1e18e3b"/>
    </dependentAssembly>
  </dependency>
  <dependency>
    <dependentAssembly>
      <assemblyIdentity type="win32" name="Microsoft.Windows.Common-Controls" version="6.0.0.0"
        processorArchitecture="*" publicKeyToken="6595b64144ccf1df" language="*"/>
    </dependentAssembly>
  </dependency>
</assembly>`

func TestParse(t *testing.T) {
	codec := winmanifest.NewCodec()

	m, err := codec.Parse([]byte(sampleManifest))
	require.NoError(t, err)

	assert.Equal(t, domain.AssemblyRef{
		Name:    "app.exe",
		Version: "1.0.0.0",
		Arch:    "amd64",
	}, m.Identity)

	require.Len(t, m.Dependent, 2)
	assert.Equal(t, domain.AssemblyRef{
		Name:           "Microsoft.VC90.CRT",
		Version:        "9.0.21022.8",
		Arch:           "amd64",
		PublicKeyToken: "1fc8b3b9a1e18e3b",
	}, m.Dependent[0])
	assert.Equal(t, "Microsoft.Windows.Common-Controls", m.Dependent[1].Name)
	assert.Equal(t, "*", m.Dependent[1].Language)
}

func TestParse_Malformed(t *testing.T) {
	codec := winmanifest.NewCodec()

	_, err := codec.Parse([]byte("<assembly><unterminated"))
	require.Error(t, err)
}

func TestSerializeRoundTrip(t *testing.T) {
	codec := winmanifest.NewCodec()

	original := &domain.AssemblyManifest{
		Identity: domain.AssemblyRef{Name: "app.exe", Version: "1.0.0.0", Arch: "amd64"},
		Dependent: []domain.AssemblyRef{
			{Name: "Microsoft.VC90.CRT", Version: "9.0.30729.9247", Arch: "amd64", PublicKeyToken: "1fc8b3b9a1e18e3b"},
		},
	}

	out, err := codec.Serialize(original)
	require.NoError(t, err)
	assert.Contains(t, string(out), `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, string(out), `xmlns="urn:schemas-microsoft-com:asm.v1"`)

	parsed, err := codec.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, original.Identity, parsed.Identity)
	assert.Equal(t, original.Dependent, parsed.Dependent)
}

func TestSerialize_EmptyIdentityOmitted(t *testing.T) {
	codec := winmanifest.NewCodec()

	out, err := codec.Serialize(&domain.AssemblyManifest{
		Dependent: []domain.AssemblyRef{{Name: "dep", Version: "1.0"}},
	})
	require.NoError(t, err)

	parsed, err := codec.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, domain.AssemblyRef{}, parsed.Identity)
	require.Len(t, parsed.Dependent, 1)
}
