package legacy

// Suffix is appended to summaries.
const Suffix = "!"
