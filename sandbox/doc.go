// Package sandbox validates and executes SQL fragments against a database
// engine, normalizing every outcome into a Result value.
//
// A Sandbox owns exactly one engine connection and serializes all statement
// execution through it. Before anything reaches the engine, the statement's
// leading verb is checked against an allow-list and its text is scanned for
// banned fragments (privilege grants, database-level drops). Engine failures
// never escape as errors: Execute always returns a Result, failed or not.
//
//	sb, err := sandbox.Open(dialect.SQLite, "file:app.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sb.Close()
//
//	b := sql.Dialect(dialect.SQLite)
//	frag, _ := b.Select("users", nil, sql.SelectOptions{})
//	res := sb.Execute(ctx, frag)
//	if res.Success() {
//	    fmt.Println(res.Rows())
//	}
//
// The default allow-list covers the seven plain statement verbs; statements
// starting with other keywords, such as WITH fragments produced by the CTE
// composer, require a policy whose allow-list includes that verb:
//
//	sb, err := sandbox.Open(dialect.SQLite, "file:app.db",
//	    sandbox.WithPolicy(sandbox.Policy{
//	        AllowedVerbs:    append(sandbox.DefaultPolicy().AllowedVerbs, "WITH"),
//	        BannedFragments: sandbox.DefaultPolicy().BannedFragments,
//	    }))
//
// Multiple independent Sandbox instances may run concurrently, each with
// exclusive ownership of its own connection. There is no built-in timeout;
// bound execution time with a context deadline on the caller side.
package sandbox
