// Package bindings loads action bindings from JSON documents and applies
// them to an input-state tracker.
//
// A bindings document names actions and the single key or mouse button each
// one aliases:
//
//	{
//	  "name": "default",
//	  "bindings": [
//	    {"action": "jump", "key": "Space"},
//	    {"action": "shoot", "mouseButton": 0}
//	  ]
//	}
//
// Entries are applied in document order, so a later entry for the same
// action overwrites an earlier one, matching the tracker's AddAction
// semantics. The Watcher re-loads and re-applies a document when the file
// changes on disk; a malformed edit keeps the last good set. Nothing is
// ever written back to disk.
package bindings
