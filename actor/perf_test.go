// perf_test
package actor

import (
	"context"
	"testing"
)

func BenchmarkLocalHello(b *testing.B) {
	for i := 0; i < b.N; i++ {
		localHello("Hello")
	}
}

func BenchmarkAskHello(b *testing.B) {
	as := NewActorSystem()
	server, _ := as.NewActor("greeter", func(ac ActorContext, msg ActorMsg) {
		msg.Reply(localHello(msg.Data().(string)), ac.Self())
	})
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := server.Ask(ctx, "hello"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSendHello(b *testing.B) {
	as := NewActorSystem()
	received := make(chan struct{}, 1)
	count, total := 0, 0
	server, _ := as.NewActor("greeter", func(ac ActorContext, msg ActorMsg) {
		localHello(msg.Data().(string))
		count++
		if count == total {
			received <- struct{}{}
		}
	})
	total = b.N
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		server.Send("hello", nil)
	}
	<-received
}

func localHello(str string) string {
	return str + "X"
}
