// Package scanner retrieves repository contents through Repomix and sorts the
// result into documentation and code files.
//
// Repomix is invoked as a subprocess against a remote repository+branch. Its
// "xml" output style uses XML-like tags but is not valid XML, so the output is
// parsed with pattern matching, with a markdown-header fallback for older
// output styles. Markdown documents get a goldmark-based section index so
// downstream prompts can reference sections by title.
package scanner
