/*
Package operation applies patch definitions to files.

	+-------------+
	|  Operation  |
	|   (patch)   |
	+------+------+
	       |
	+------+------+
	|    Rules    |
	| (text/span) |
	+------+------+
	       |
	+------+------+
	|   Status    |
	|  (files)    |
	+-------------+

An ApplyOperation expands the patch's file globs, runs the rules over each
file through a text.TextReplacer and hands the result to the status manager.
A file is only written when every rule that applies to it succeeded.

The runner executes operations one by one or, with jobs > 1, concurrently
through an errgroup. Each operation's failure is collected and joined, so one
broken patch does not hide the result of the others.

	files := status.New(cfg.Root)
	op, err := operation.NewApplyOperation(operation.Options{
		Patch:  cfg.Patches[0],
		Files:  files,
		Logger: log.New(ctx, os.Stdout),
		Mode:   operation.ModeDryRun,
		Diff:   true,
	})
	if err != nil {
		return err
	}
	return operation.NewRunner(1).Run(ctx, op)
*/
package operation
