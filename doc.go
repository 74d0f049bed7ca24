/*
Package lrdrive is a table-driven shift-reduce parsing engine.

lrdrive strives to be a small and predictable driver for LR parse tables which have
been generated elsewhere. Clients hand in a grammar, an ACTION table and a GOTO table
as immutable configuration, and feed a stream of tokens. The engine either accepts the
input or recovers from syntax errors by discarding input tokens (panic mode). Its only
output is a verdict plus an ordered trace of parser actions. Package structure is
as follows:

■ grammar: Package grammar holds productions, indexed by number.

■ lr: Package lr implements ACTION and GOTO tables, including loading them from a
JSON description.

■ lr/driver: Package driver implements the parser engine and panic-mode recovery.

■ lr/trace: Package trace defines the events a parser run emits.

■ lr/scanner: Package scanner defines the token source interface.

■ lang/printstmt: A small reference language with pre-computed tables.

■ cmd/lrtrace: A command line tool to run the parser and inspect its trace.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lrdrive
