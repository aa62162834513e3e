/*
Package bank keeps bank accounts behind actors.

Every account is owned by exactly one actor. The actor applies withdraw,
deposit and balance requests one at a time in mailbox order and replies to
the sender of each request, so no lock guards a balance.

A transfer between two accounts is a saga: a short lived hidden actor that
asks the source for a withdraw, waits for the answer, asks the destination
for a deposit and reports the outcome to its customer. It never holds both
accounts at once. A deposit that fails after a successful withdraw leaves the
money stranded; the saga reports TransferFailed, flags the transfer as
stranded and does not compensate.

Bank ties it together: it opens accounts in an actor system, addresses them
by id through a router, runs transfers and audits the total.
*/
package bank
