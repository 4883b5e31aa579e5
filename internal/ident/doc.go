// internal/ident/doc.go

/*
Package ident provides the typed identifiers used by the propagation engine:
nodes, input pins, output pins and links.

Every identifier is drawn from a process-wide counter, so two live objects of
the same kind never share an id and an id is never handed out twice while the
process runs. The zero value of each type means "unset" and is never issued.

Identifiers have a canonical text form, `<kind>:<number>`, e.g. `node:3`,
`in:12`, `out:7` or `link:2`. The text form is what crosses process
boundaries (the remote editor bridge, logs, exported models).
*/
package ident
