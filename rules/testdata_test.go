package rules

// fixtureList is a small, hand-picked excerpt of the real Public Suffix
// List covering every scenario in spec §8/§9: a plain ICANN rule (ac.be), a
// wildcard with no exception (*.ck), a wildcard narrowed by an exception
// (*.ck / !www.ck), a private-section rule (github.io), and a Unicode ACE
// label (公司.cn / xn--55qx5d.cn).
const fixtureList = `// ===BEGIN ICANN DOMAINS===

// be
be
ac.be

// ck
ck
*.ck
!www.ck

// io
io

// uk
uk
co.uk

// cn
cn
xn--55qx5d.cn

// ===END ICANN DOMAINS===

// ===BEGIN PRIVATE DOMAINS===

github.io

// ===END PRIVATE DOMAINS===
`
