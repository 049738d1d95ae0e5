// Package stylesheet decodes stylesheet documents and serves them to the
// engine.
//
// A stylesheet is a YAML or CUE document of the form
//
//	themes:
//	  <theme>:
//	    <identifier>:
//	      <attribute>: <value>
//	      states:
//	        "<state>":
//	          <attribute>: <value>
//
// State keys use the state grammar (":highlighted", "[:selected:focused]").
// Unknown state names are registered on first use. Theme, identifier and
// attribute names are NFC-normalised. A null value is stored as an explicit
// nil, which masks lower-priority sources.
//
// DirProvider resolves a (bundle, name) key to <root>/<bundle>/<name>.yaml,
// .yml or .cue and memoises decoded sheets.
package stylesheet
