// Package async is the non-blocking face of a bank account. Every
// operation returns a Future at once; the account runs the operations
// one at a time on its own goroutine, so futures can be chained, e.g.
// withdraw and then deposit, without a mailbox or a lock on the balance.
package async
