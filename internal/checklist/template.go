package checklist

// DefaultTemplate is written to the checklist path when no file exists.
// Users are expected to edit it; tinman never touches the file again.
const DefaultTemplate = `# TinMan Heartbeat Checklist

<!-- tinman runs this checklist on every heartbeat. -->
<!-- Keep actions NOTIFY-ONLY unless you know what you're doing. -->

You are running a scheduled heartbeat check for this project.

## Your job every heartbeat:

1. **Recent activity**: Summarize anything that needs the user's attention:
   - Failed tool calls or errors from recent sessions
   - Uncommitted changes or stale git branches
   - Large files or directories created recently

2. **System sanity**:
   - Disk space on current volume (warn if < 5 GB free)
   - Any runaway processes (high CPU/memory if detectable)

3. **Project health** (if in a git repo):
   - Uncommitted changes (git status --short)
   - Unpushed commits (git log @{u}.. if upstream set)
   - Failed CI (if .github/workflows present, note last known state)

4. **Security sanity**:
   - Any unexpected files in sensitive locations (~/.ssh, .env files)
   - API keys in plain sight in recently modified files

## Response format:

If nothing needs attention:
  Reply with exactly: ` + "`HEARTBEAT_OK`" + `

If something needs attention:
  - Give 1-5 bullet summary of issues
  - Recommend a next action for each
  - Ask for confirmation before taking ANY irreversible step
`
