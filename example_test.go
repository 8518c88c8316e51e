package probe_test

import (
	"context"
	"fmt"

	"github.com/aretw0/probe"
	"github.com/aretw0/probe/pkg/domain"
)

func ExampleCollect() {
	checks := probe.Context("checkout", probe.Collect(
		probe.Fail[E, probe.Unit]("price missing"),
		probe.Info[E]("cart loaded"),
		probe.Fail[E, probe.Unit]("total wrong"),
	))

	_, s := checks.Invoke(context.Background(), probe.NoEnv{}, domain.NewRunState(domain.Settings{}))
	for _, err := range s.Errors {
		fmt.Println(err)
	}
	// Output:
	// price missing (checkout)
	// total wrong (checkout)
}

func ExampleBind() {
	greet := probe.Bind(probe.ConfigOr[E]("user", "guest"), func(user string) probe.Action[string] {
		return probe.Pure[E]("hello " + user)
	})

	eng, _ := probe.New(probe.WithConfig(map[string]string{"user": "ada"}))
	report, _ := probe.Run(context.Background(), eng, greet)
	fmt.Println(report.Value)
	// Output: hello ada
}
