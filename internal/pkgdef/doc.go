// Package pkgdef defines what a package is: an identity plus a Render
// method producing the ordered manifest sequence for one instance.
package pkgdef
