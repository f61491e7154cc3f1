/*
Package workflow contains Docureco's three orchestration workflows and the
state-graph runner they execute on.

BaselineMapCreator scans a repository with repomix, extracts requirements and
design elements from its SRS/SDD documents through the LLM, maps them to each
other and to code files, and saves the resulting baseline traceability map.

BaselineMapUpdater applies the diff between two refs to an existing map:
changed documents are re-extracted and merged by reference id so stable
artifacts keep their element ids, removed code components and dangling links
are dropped, and new code files are mapped in.

DocumentUpdateRecommender turns a pull request into 4W (What/Where/Why/How)
documentation-update recommendations: classify the changes, trace their
impact through the map, assess likelihood and severity per affected element,
and post the high-priority findings as a deduplicated PR comment.

Each workflow records its progress in a workflow_runs row and terminates
cleanly at well-defined routes (no documents found, no baseline map, nothing
relevant changed).
*/
package workflow
