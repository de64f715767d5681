// Package shelltypes defines the core types shared by the coreshell execution engine.
//
// The package holds the declarative command contracts (argument slots, switch
// declarations, flags), the per-line ParsedInvocation produced by the parser,
// the validator verdicts, the registry layers and the error taxonomy.
//
// # Command capabilities
//
// Every command implements Command. Commands that can render on reduced
// capability terminals additionally implement DumbExecutor, and commands that
// contribute extra help text implement HelpHelper:
//
//	type EchoCommand struct{}
//
//	func (c *EchoCommand) Execute(ctx context.Context, call *shelltypes.Call) error {
//		call.Out.Println(call.Invocation.RawArguments)
//		return nil
//	}
//
// The dispatcher holds a Command interface value and chooses between Execute
// and ExecuteDumb at run time.
package shelltypes
