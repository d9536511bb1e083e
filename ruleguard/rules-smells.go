package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

func smells(m dsl.Matcher) {
	// Two guards in a row with the same return can be merged:
	//   if a { return err }
	//   if b { return err }
	// => if a || b { return err }
	m.Match(`if $c1 { return $ret }; if $c2 { return $ret }`).
		Report(`two consecutive guards return the same value; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { return $ret }`)

	m.Match(`if $c1 { continue }; if $c2 { continue }`).
		Report(`two consecutive continues; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { continue }`)

	m.Match(`for $*_ { for $*_ { $*_ } }`).
		Report(`nested for-loop; consider extracting inner loop logic or reducing algorithmic complexity`)
}

// privacy keeps caller-submitted text out of the logs.
func privacy(m dsl.Matcher) {
	m.Import("go.uber.org/zap")

	m.Match(`zap.String("text", $_)`, `zap.String("prompt", $_)`).
		Report(`submitted text must not be logged; log its length instead`)
}

// transport forbids bypassing the request context on outbound calls.
func transport(m dsl.Matcher) {
	m.Import("net/http")

	m.Match(`http.NewRequest($*_)`).
		Where(m.File().PkgPath.Matches(`internal/infra/llm`)).
		Report(`use http.NewRequestWithContext so caller cancellation reaches the backend`)

	m.Match(`http.Get($*_)`, `http.Post($*_)`).
		Where(!m.File().Name.Matches(`_test\.go$`)).
		Report(`use the configured client with a context instead of the default client`)
}
