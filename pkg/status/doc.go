/*
Package status owns file access and status tracking for a patch root.

	            +-------------+
	            |   Manager   |
	            |   (root)    |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           | Status  |
	| (glob/io) |           | (track) |
	+-----------+           +---------+

All paths are slash separated and relative to the root the Manager was
created with. Writes go through a temp file in the target directory and a
rename, so a reader never sees a half-written file. Backups are plain
copies next to the original with a .bak suffix.
*/
package status
