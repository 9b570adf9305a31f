// Package winmanifest implements the side-by-side assembly manifest codec
// on top of encoding/xml.
package winmanifest

import (
	"encoding/xml"

	"go.trai.ch/zerr"

	"github.com/balebuild/bale/internal/core/domain"
)

const assemblyNamespace = "urn:schemas-microsoft-com:asm.v1"

type xmlIdentity struct {
	Type                  string `xml:"type,attr,omitempty"`
	Name                  string `xml:"name,attr"`
	Version               string `xml:"version,attr,omitempty"`
	ProcessorArchitecture string `xml:"processorArchitecture,attr,omitempty"`
	PublicKeyToken        string `xml:"publicKeyToken,attr,omitempty"`
	Language              string `xml:"language,attr,omitempty"`
}

type xmlDependentAssembly struct {
	Identity xmlIdentity `xml:"assemblyIdentity"`
}

type xmlDependency struct {
	Dependent []xmlDependentAssembly `xml:"dependentAssembly"`
}

type xmlAssembly struct {
	XMLName         xml.Name        `xml:"assembly"`
	Namespace       string          `xml:"xmlns,attr"`
	ManifestVersion string          `xml:"manifestVersion,attr"`
	Identity        *xmlIdentity    `xml:"assemblyIdentity"`
	Dependency      []xmlDependency `xml:"dependency"`
}

// Codec implements ports.ManifestCodec.
type Codec struct{}

func NewCodec() *Codec {
	return &Codec{}
}

// Parse decodes an assembly manifest into its identity and dependent
// assembly references. Elements outside that subset (trust info, file
// lists) do not participate in any cache decision and are dropped.
func (*Codec) Parse(data []byte) (*domain.AssemblyManifest, error) {
	var doc xmlAssembly
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestParse.Error())
	}

	m := &domain.AssemblyManifest{}
	if doc.Identity != nil {
		m.Identity = toRef(*doc.Identity)
	}
	for _, dep := range doc.Dependency {
		for _, da := range dep.Dependent {
			m.Dependent = append(m.Dependent, toRef(da.Identity))
		}
	}
	return m, nil
}

// Serialize encodes the manifest back to XML.
func (*Codec) Serialize(m *domain.AssemblyManifest) ([]byte, error) {
	doc := xmlAssembly{
		Namespace:       assemblyNamespace,
		ManifestVersion: "1.0",
	}
	if m.Identity != (domain.AssemblyRef{}) {
		id := fromRef(m.Identity)
		doc.Identity = &id
	}
	for _, ref := range m.Dependent {
		doc.Dependency = append(doc.Dependency, xmlDependency{
			Dependent: []xmlDependentAssembly{{Identity: fromRef(ref)}},
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to serialize manifest")
	}
	return append([]byte(xml.Header), out...), nil
}

func toRef(id xmlIdentity) domain.AssemblyRef {
	return domain.AssemblyRef{
		Name:           id.Name,
		Version:        id.Version,
		Arch:           id.ProcessorArchitecture,
		Language:       id.Language,
		PublicKeyToken: id.PublicKeyToken,
	}
}

func fromRef(ref domain.AssemblyRef) xmlIdentity {
	return xmlIdentity{
		Type:                  "win32",
		Name:                  ref.Name,
		Version:               ref.Version,
		ProcessorArchitecture: ref.Arch,
		Language:              ref.Language,
		PublicKeyToken:        ref.PublicKeyToken,
	}
}
