// Package didact provides the core types for building e-learning course
// artifacts through a staged, LLM-backed workflow.
//
// The root package defines the conversation primitives (Message, Response,
// Options) and the Generator interface that abstracts the text-generation
// backend. Provider adapters live under provider/, the unified client in
// gateway/, the stage state machine in engine/, and the session state in
// course/.
//
// A minimal session looks like:
//
//	gw := gateway.New(gateway.Config{
//	    APIKeys: gateway.APIKeys{OpenAI: os.Getenv("OPENAI_API_KEY")},
//	    Model:   model.GPT4o,
//	})
//	eng := engine.New(gw, engine.DefaultConfig())
//
//	for {
//	    q, done, _ := eng.NextQuestion(ctx)
//	    if done {
//	        break
//	    }
//	    eng.SubmitAnswer(askUser(q))
//	}
//	eng.Summarize(ctx)
//	eng.Advance()
//	// ... analyze, outline, storyboard, assessment
//	doc := export.Markdown(eng.Course(), "My Course")
package didact
