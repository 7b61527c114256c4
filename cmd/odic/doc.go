// Command odic generates typed container wrappers from YAML manifests.
//
// You describe one container in a *.di.yaml manifest next to the code that
// uses it, add a //go:generate directive in the owner Go file, and odic emits
// a wrapper over di.Container with one typed accessor per slot.
//
// Manifest format (*.di.yaml)
//
//	package: app
//	container: Services
//	strategy: implicit
//	slots:
//	  - name: store
//	    type: "*store.Repo"
//	    default: { produce: store.NewRepo }
//	  - name: notify
//	    type: callable
//	    goType: "func(string) error"
//	  - name: report
//	    type: deferred
//
// Type, producer and instance names are Go expressions in the generated
// package. Every package qualifier they use ("store" above) must be imported
// by the owner file; odic copies those imports and drops the rest.
//
// Typical go:generate usage
//
//	//go:generate go run github.com/sghaida/odic/cmd/odic -spec ./services.di.yaml -out ./services_di.gen.go
//
// Flags and environment
//
//	-spec       ODIC_SPEC       manifest path (required)
//	-out        ODIC_OUT        output file path (required)
//	-di-import  ODIC_DI_IMPORT  import path of the di package
//	-v          ODIC_VERBOSE    debug logging
//	            ODIC_ENV        "production" switches logs to JSON
//
// A .env file in the working directory is loaded before flags are parsed.
// Flags override environment values.
//
// Generated API (summary)
//
//   - new<Container>Registry() *di.MapRegistry
//   - <Container>Definition *di.Definition
//   - Make<Container>(inputs any) (*<Container>, error)
//   - MustMake<Container>(inputs any) *<Container>
//   - (*<Container>).Container() *di.Container
//   - (*<Container>).<Slot>() (<Type>, error)   // for each slot
//
// Exit codes: 0 on success, 1 when generation fails, 2 on usage errors.
package main
