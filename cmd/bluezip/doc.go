// Command bluezip ingests Flashpoint curations into byte-reproducible
// archives and records each accepted archive in a revision ledger.
package main
