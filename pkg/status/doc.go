/*
Package status tracks what happened to each target file and how that is shown.

	            +-------------+
	            |   Status    |
	            | (per file)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|  Tracker  |           | Format  |
	| (counts)  |           | (UI/UX) |
	+-----------+           +---------+

🎯 Purpose:
- Names the outcome of a file (clean, rewritten, dirty, lint, did not converge)
- Counts outcomes across workers for the run summary
- Renders file lines and summaries for the console
- Writes canonical content atomically

⚡ Key Responsibilities:
- FileStatus: the per-file outcome
- Tracker: thread-safe counts
- FileFormatter: plain text rendering (emoji prefixed)
- FormatFileLine: coloured, column aligned rendering
- WriteFileAtomic: temp file + rename in the target's directory

🔍 Example:

	tracker := status.NewTracker()
	tracker.Track(status.StatusRewritten)

	fmt.Println(status.FormatFileLine("main.go", status.StatusRewritten, ""))
	fmt.Println(status.NewDefaultFileFormatter().FormatSummary(tracker.Snapshot()))
*/
package status
