package bincache

import (
	"fmt"

	"github.com/balebuild/bale/internal/core/domain"
)

// applyManifestRules edits a parsed dependency manifest in place:
// private-assembly conversion first, then binding redirects. It reports
// whether the manifest was modified. displayName is used for logging only.
func (c *Cache) applyManifestRules(m *domain.AssemblyManifest, displayName string) bool {
	modified := false

	if c.cfg.PrivateAssemblies {
		if m.Identity.PublicKeyToken != "" {
			c.log.Info(fmt.Sprintf("changing %s into a private assembly", displayName))
		}
		m.Identity.PublicKeyToken = ""
		for i := range m.Dependent {
			// Common-Controls is resolved from the system and never
			// bundled, so it keeps its strong name.
			if m.Dependent[i].Name != domain.CommonControlsAssembly {
				m.Dependent[i].PublicKeyToken = ""
			}
		}
		modified = true
	}

	if c.applyRedirects(m) {
		modified = true
	}
	return modified
}

// applyRedirects applies the configured binding redirects to the
// manifest's dependent assemblies, reporting whether any matched.
func (c *Cache) applyRedirects(m *domain.AssemblyManifest) bool {
	redirecting := false
	for _, redirect := range c.cfg.BindingRedirects {
		for i := range m.Dependent {
			if redirect.Matches(m.Dependent[i]) {
				c.log.Info(fmt.Sprintf(
					"redirecting %s version %s -> %s",
					redirect.Name, m.Dependent[i].Version, redirect.NewVersion,
				))
				m.Dependent[i].Version = redirect.NewVersion
				redirecting = true
			}
		}
	}
	return redirecting
}
