// Package input defines the tagged input identifier shared by the tracker,
// the event sources, and the binding layer.
//
// An identifier names either a keyboard key (by text label) or a mouse
// button (by small non-negative ordinal). The two domains are discriminated
// by a kind tag, so the key "0" and mouse button 0 are distinct map keys and
// can never alias.
package input
