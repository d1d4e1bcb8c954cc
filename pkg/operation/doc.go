/*
Package operation runs a formatting pass over a set of target files.

	targets ──▶ target.Resolver ──▶ files
	                                  │ submit (in order)
	                                  ▼
	                     ┌──────── pool ────────┐
	                     │ worker 0 … worker N-1 │
	                     └──────────┬───────────┘
	                                │ PipelineFactory.Get(workerID)
	                                ▼
	                        format.Pipeline.Check
	                                │ futures joined in order
	                                ▼
	              Mode.HandleResult ──▶ ResultType.Combine ──▶ exit code

🎯 Purpose:
- Resolves targets and checks each file on a fixed pool of workers
- Binds one pipeline to each worker for the whole run
- Applies or reports each outcome and folds everything into one verdict

⚡ Exit codes:

	          clean   dirty   did not converge   failure
	check       0       1          -1              -2
	apply       0       0          -1              -2

🧹 Teardown happens on every exit path in this order: the pool is shut down,
then every pipeline is closed, which releases the scratch directories its
stages registered. The build root and step caches stay for the next run.

🔍 Example:

	seq, _ := step.Default.Build(cfg.Steps)
	code, err := operation.Run(ctx, operation.Options{
		Targets: []string{"cmd", "pkg"},
		Mode:    operation.ModeCheck,
		Steps:   seq,
		BaseDir: ".",
	})
*/
package operation
